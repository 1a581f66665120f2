package types

// Bucket is one value of a terms aggregation with its document count.
type Bucket struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}
