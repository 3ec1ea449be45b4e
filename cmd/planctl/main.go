package main

import (
	"encoding/binary"
	"flag"
	"io"
	"log"
	"os"

	"github.com/BjarneHerland/oneseismic/plan"
)

func main() {
	in := flag.String("in", "-", "Path to a packed request document, or - for stdin")
	taskSize := flag.Int("task-size", 1000, "Maximum fragments per task")
	flag.Parse()

	doc, err := readInput(*in)
	if err != nil {
		log.Fatalf("planctl: failed to read request document: %s", err)
	}

	chunks, err := plan.Mkschedule(doc, *taskSize)
	if err != nil {
		log.Fatalf("planctl: %s", err)
	}

	for _, chunk := range chunks {
		var lenPrefix [4]byte
		binary.BigEndian.PutUint32(lenPrefix[:], uint32(len(chunk)))
		if _, err := os.Stdout.Write(lenPrefix[:]); err != nil {
			log.Fatalf("planctl: failed to write output: %s", err)
		}
		if _, err := os.Stdout.Write(chunk); err != nil {
			log.Fatalf("planctl: failed to write output: %s", err)
		}
	}
	log.Printf("planctl: wrote %d task(s)", len(chunks))
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
