package minio

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
)

// Storage 对象存储能力，业务层依赖该接口而不是全局客户端
type Storage interface {
	Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, objectName string) error
}

type storageImpl struct{}

// NewStorage 基于全局 Client 的 Storage 实现，需先调用 Init
func NewStorage() Storage {
	return &storageImpl{}
}

// Upload 上传文件并返回公开访问地址
func (s *storageImpl) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	if Client == nil {
		return "", fmt.Errorf("minio client is not initialized")
	}

	uploadInfo, err := Client.PutObject(ctx, Bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return GetPublicURL(uploadInfo.Key), nil
}

// Remove 删除对象，objectName 也可以是 GetPublicURL 返回的完整地址
func (s *storageImpl) Remove(ctx context.Context, objectName string) error {
	if Client == nil {
		return fmt.Errorf("minio client is not initialized")
	}
	if name, ok := ObjectNameFromURL(objectName); ok {
		objectName = name
	}

	err := Client.RemoveObject(ctx, Bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// GetPublicURL 获取文件的公共访问URL
func GetPublicURL(objectName string) string {
	protocol := "http"
	if useSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", protocol, publicEndpoint, Bucket, objectName)
}

// ObjectNameFromURL 从公开地址还原对象名，非本桶地址返回 false
func ObjectNameFromURL(url string) (string, bool) {
	if Bucket == "" {
		return "", false
	}
	marker := "/" + Bucket + "/"
	idx := strings.Index(url, marker)
	if idx < 0 || !strings.Contains(url[:idx], "://") {
		return "", false
	}
	return url[idx+len(marker):], true
}
