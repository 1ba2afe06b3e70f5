package push

// Per-request limits of the push service.
const (
	// MaxMessagesPerRequest is the most messages a single send call may carry.
	MaxMessagesPerRequest = 100

	// MaxReceiptIDsPerRequest is the most ids a single receipt query may carry.
	MaxReceiptIDsPerRequest = 300
)

// Chunk splits messages into consecutive groups of at most size messages.
// Every group except possibly the last holds exactly size messages, and
// concatenating the groups reproduces messages in order. The groups share the
// backing array of messages. Chunk returns nil when messages is empty or size
// is not positive.
func Chunk(messages []Message, size int) [][]Message {
	return chunk(messages, size)
}

// ChunkReceiptIDs splits ids the same way Chunk splits messages.
func ChunkReceiptIDs(ids []ReceiptID, size int) [][]ReceiptID {
	return chunk(ids, size)
}

func chunk[T any](items []T, size int) [][]T {
	if size <= 0 || len(items) == 0 {
		return nil
	}
	out := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, items[start:end:end])
	}
	return out
}
