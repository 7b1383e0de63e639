package store

// Store drivers.
const (
	DriverJSON = "json"
	DriverSQL  = "sql"
)

// Lock drivers.
const (
	LockMemory = "memory"
	LockRedis  = "redis"
)

// Config selects the collection backend.
type Config struct {
	// Driver is json or sql.
	Driver string `mapstructure:"driver" default:"json"`
	// Path of the JSON document, relative to storage.root.
	Path string `mapstructure:"path" default:"data.json"`
}

// LockConfig selects the writer lock.
type LockConfig struct {
	Driver   string `mapstructure:"driver" default:"memory"`
	Addr     string `mapstructure:"addr" default:"localhost:6379"`
	Password string `mapstructure:"password" default:""`
	DB       int    `mapstructure:"db" default:"0"`
	// TTLSeconds bounds how long a crashed holder can block others.
	TTLSeconds int    `mapstructure:"ttl_seconds" default:"30"`
	Key        string `mapstructure:"key" default:"course-manager:collection"`
}
