package storage

import "errors"

// ErrKeyNotFound - returned by Load of every storage when nothing is stored under the key.
var ErrKeyNotFound = errors.New("key not found")

const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
)
