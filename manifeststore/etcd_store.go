package manifeststore

import (
	"context"
	"strings"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

const etcdBaseDir = "oneseismic"

// EtcdStore is the source of truth for manifest documents: a flat etcd
// keyspace namespaced by cluster ID, one key per cube.
type EtcdStore struct {
	ClusterID string
	Client    *clientv3.Client
}

// NewEtcdStore wraps an already-connected etcd client.
func NewEtcdStore(c *clientv3.Client, clusterID string) *EtcdStore {
	return &EtcdStore{ClusterID: clusterID, Client: c}
}

func (s *EtcdStore) path(parts ...string) string {
	return etcdBaseDir + "/" + s.ClusterID + "/manifests/" + strings.Join(parts, "/")
}

// Get fetches the manifest document for cubeID. It returns *NotFoundError
// if no key exists.
func (s *EtcdStore) Get(cubeID string) (*Record, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := s.Client.Get(ctx, s.path(cubeID))
	if err != nil {
		return nil, err
	}
	if len(resp.Kvs) == 0 {
		return nil, &NotFoundError{CubeID: cubeID}
	}
	return &Record{
		CubeID:    cubeID,
		Body:      resp.Kvs[0].Value,
		FetchedAt: time.Now(),
	}, nil
}

// Put writes rec's body under its cube ID, overwriting any previous value.
func (s *EtcdStore) Put(rec *Record) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := s.Client.Put(ctx, s.path(rec.CubeID), string(rec.Body))
	return err
}
