package storage

// Config holds configuration for the blob storage provider.
type Config struct {
	// Driver selects the backend: "disk" (two local directories) or "s3" (MinIO/S3 bucket).
	Driver string `mapstructure:"driver" default:"disk"`
	// Root is the base directory of the disk backend.
	Root string `mapstructure:"root" default:"."`
	// VideosDir is the directory (or object prefix) holding videos and cover images.
	VideosDir string `mapstructure:"videos_dir" default:"videos"`
	// MaterialsDir is the directory (or object prefix) holding supplementary materials.
	MaterialsDir string `mapstructure:"materials_dir" default:"materiais"`
	// MaxFileSizeMB limits a single uploaded file.
	MaxFileSizeMB int `mapstructure:"max_file_size_mb" default:"300"`

	// Endpoint is the URL of the storage service.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Bucket is the name of the bucket to store course files in.
	Bucket string `mapstructure:"bucket" default:"courses"`
	// Region is the location of the bucket (e.g., us-east-1).
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

const (
	DriverDisk = "disk"
	DriverS3   = "s3"
)

// MaxFileSize returns the per-file upload limit in bytes.
func (c Config) MaxFileSize() int64 {
	mb := c.MaxFileSizeMB
	if mb <= 0 {
		mb = 300
	}
	return int64(mb) * 1024 * 1024
}

// Dirs maps each area to its configured directory or prefix.
func (c Config) Dirs() map[Area]string {
	videos, materials := c.VideosDir, c.MaterialsDir
	if videos == "" {
		videos = "videos"
	}
	if materials == "" {
		materials = "materiais"
	}
	return map[Area]string{AreaVideos: videos, AreaMaterials: materials}
}
