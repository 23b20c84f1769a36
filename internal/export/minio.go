package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
)

// UploadArtifact pushes an exported snapshot to object storage under
// exports/{filename}.
func UploadArtifact(ctx context.Context, minioCli *minio.Client, bucket, localPath string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open export file failed: %w", err)
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		return fmt.Errorf("get file info failed: %w", err)
	}

	contentType := "application/octet-stream"
	switch strings.ToLower(filepath.Ext(localPath)) {
	case ".csv":
		contentType = "text/csv"
	case ".json":
		contentType = "application/json"
	}

	objectPath := "exports/" + filepath.Base(localPath)
	_, err = minioCli.PutObject(ctx, bucket, objectPath, file, fileInfo.Size(),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("put object to minio failed: %w", err)
	}
	return nil
}
