package s3

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"

	"skillspace-backend/internal/repo"
)

const photoBucket = "profile-photos"

type Photo struct {
	minioClient *minio.Client
}

func NewPhoto(minioClient *minio.Client) (repo.Photo, error) {
	// Создаем бакет для фотографий профиля, предварительно проверив, что его нет
	ctx := context.TODO()
	exists, err := minioClient.BucketExists(ctx, photoBucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		err = minioClient.MakeBucket(ctx, photoBucket, minio.MakeBucketOptions{
			Region: "eu-central-1",
		})
		if err != nil {
			return nil, err
		}
	}
	return &Photo{
		minioClient: minioClient,
	}, nil
}

func (p *Photo) Save(ctx context.Context, objectName, contentType string, data io.Reader, size int64) (string, error) {
	_, err := p.minioClient.PutObject(
		ctx,
		photoBucket,
		objectName,
		data,
		size,
		minio.PutObjectOptions{
			ContentType: contentType,
		},
	)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("/uploads/%s/%s", photoBucket, objectName), nil
}

func (p *Photo) Delete(ctx context.Context, fileURL string) error {
	objectName := strings.TrimPrefix(fileURL, fmt.Sprintf("/uploads/%s/", photoBucket))
	return p.minioClient.RemoveObject(ctx, photoBucket, objectName, minio.RemoveObjectOptions{})
}
