// SPDX-License-Identifier: MIT

package monitor

import (
	"reflect"
	"time"
)

// normalizeLogs copies logs into a fresh map, unboxing every floating point
// value into a plain float64. Other values are copied unchanged.
func normalizeLogs(logs Logs) Logs {
	converted := make(Logs, len(logs))
	for key, value := range logs {
		converted[key] = normalizeValue(value)
	}
	return converted
}

// normalizeValue converts on the underlying kind only, so named float types
// such as `type Float32 float32` are unboxed while integers, pointers and
// structs pass through whatever methods they carry.
func normalizeValue(value interface{}) interface{} {
	if value == nil {
		return nil
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	}
	return value
}

// timestamp renders t as an ISO-8601 string.
func timestamp(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}
