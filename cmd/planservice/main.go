package main

import (
	"flag"
	"log"
	"strings"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/BjarneHerland/oneseismic/authn"
	"github.com/BjarneHerland/oneseismic/config"
	"github.com/BjarneHerland/oneseismic/httpapi"
	"github.com/BjarneHerland/oneseismic/manifeststore"
	"github.com/BjarneHerland/oneseismic/workerpool"
)

func main() {
	configFile := flag.String("config", "", "Path to configuration file")
	join := flag.String("join", "", "Comma-separated addresses of existing cluster members to join")
	flag.Parse()

	if *configFile == "" {
		log.Fatal("planservice: -config is required")
	}

	cfg, err := config.ParseFile(*configFile)
	if err != nil {
		log.Fatalf("planservice: failed to load config: %s", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("planservice: invalid config: %s", err)
	}

	etcdClient, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Etcd.Endpoints,
		DialTimeout: 5 * time.Second,
	})
	if err != nil {
		log.Fatalf("planservice: failed to connect to etcd: %s", err)
	}
	defer etcdClient.Close()

	upstream := manifeststore.NewEtcdStore(etcdClient, cfg.Etcd.ClusterID)
	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	manifests, err := manifeststore.OpenCachedStore(upstream, cfg.Cache.Path, ttl)
	if err != nil {
		log.Fatalf("planservice: failed to open manifest cache: %s", err)
	}
	defer manifests.Close()

	handle, err := workerpool.NewHandle(workerpool.Config{
		BindAddr:      cfg.Cluster.BindAddr,
		BindPort:      cfg.Cluster.BindPort,
		TokensPerNode: cfg.Cluster.TokensPerNode,
	})
	if err != nil {
		log.Fatalf("planservice: failed to start cluster membership: %s", err)
	}
	log.Printf("planservice: cluster member %s listening on %s:%d", handle.Local.Name, cfg.Cluster.BindAddr, cfg.Cluster.BindPort)

	seeds := cfg.Cluster.Seeds
	if *join != "" {
		seeds = append(seeds, strings.Split(*join, ",")...)
	}
	if len(seeds) > 0 {
		if err := handle.Join(seeds); err != nil {
			log.Printf("planservice: failed to join cluster: %s", err)
		}
	}

	var auth *authn.Service
	if cfg.Auth.KeyFile != "" {
		auth, err = authn.LoadKeyFile(cfg.Auth.KeyFile)
		if err != nil {
			log.Fatalf("planservice: failed to load auth keys: %s", err)
		}
	}

	server := httpapi.NewServer(cfg.DefaultTaskSize, auth, manifests)
	server.Workers = handle
	log.Fatal(httpapi.Start(cfg.BindAddr, server.Handler()))
}
