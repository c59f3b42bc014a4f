package util

import "strconv"

// RowKey returns prefix immediately followed by the decimal id,
// e.g. RowKey("hello-world::", 42) == "hello-world::42".
func RowKey(prefix string, id int64) string {
	b := make([]byte, 0, len(prefix)+6)
	b = append(b, prefix...)
	b = strconv.AppendInt(b, id, 10)
	return string(b)
}

// RecordKey isolates a live-object record by namespace: "live:<ns>:<id>".
func RecordKey(ns string, id int64) string {
	return RowKey("live:"+ns+":", id)
}
