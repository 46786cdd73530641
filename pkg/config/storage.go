package config

const (
	StorageModeLocal = "local"
	StorageModeS3    = "s3"
)

type StorageConfig struct {
	Mode      string
	LocalPath string
	S3Bucket  string
	S3Region  string
	S3Prefix  string
}

func loadStorageConfig() StorageConfig {
	return StorageConfig{
		Mode:      getEnv("STORAGE_MODE", StorageModeLocal),
		LocalPath: getEnv("UPLOAD_DIR", "./uploads"),
		S3Bucket:  getEnv("AWS_BUCKET", ""),
		S3Region:  getEnv("AWS_REGION", "us-east-1"),
		S3Prefix:  getEnv("AWS_PREFIX", ""),
	}
}
