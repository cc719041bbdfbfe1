package health

import "context"

// DBPinger checks key-value store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// CorpusSizer reports how many entities are loaded.
type CorpusSizer interface {
	Len() int
}
