package services

import (
	"bytes"
	gocontext "context"
	"fmt"
	"os"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"
)

// MediaArchiveService keeps a durable copy of rendered memes in an
// S3-compatible bucket. It is optional: without MINIO_ENDPOINT the service
// stays disabled and StoreAsync is a no-op. Uploads are fire-and-forget
// and never affect the command that produced the meme.
type MediaArchiveService struct {
	context.DefaultService

	client     *minio.Client
	enabled    bool
	endpoint   string
	accessKey  string
	secretKey  string
	useSSL     bool
	bucketName string
}

const MEDIA_ARCHIVE_SVC = "media_archive_svc"

func (svc MediaArchiveService) Id() string {
	return MEDIA_ARCHIVE_SVC
}

func (svc *MediaArchiveService) Configure(ctx *context.Context) error {
	svc.endpoint = os.Getenv("MINIO_ENDPOINT")
	svc.enabled = svc.endpoint != ""

	svc.accessKey = os.Getenv("MINIO_ACCESS_KEY")
	svc.secretKey = os.Getenv("MINIO_SECRET_KEY")
	svc.useSSL = os.Getenv("MINIO_USE_SSL") == "true"

	svc.bucketName = os.Getenv("MINIO_BUCKET_NAME")
	if svc.bucketName == "" {
		svc.bucketName = "grouppal-memes"
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *MediaArchiveService) Start() error {
	if !svc.enabled {
		log.Println("Media archive disabled (MINIO_ENDPOINT not set)")
		return nil
	}

	client, err := minio.New(svc.endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(svc.accessKey, svc.secretKey, ""),
		Secure: svc.useSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create MinIO client: %w", err)
	}
	svc.client = client

	if err := svc.ensureBucket(); err != nil {
		return fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	log.Printf("Media archive started with endpoint: %s", svc.endpoint)
	return nil
}

func (svc *MediaArchiveService) ensureBucket() error {
	ctx := gocontext.Background()

	exists, err := svc.client.BucketExists(ctx, svc.bucketName)
	if err != nil {
		return err
	}
	if !exists {
		if err := svc.client.MakeBucket(ctx, svc.bucketName, minio.MakeBucketOptions{}); err != nil {
			return err
		}
	}
	return nil
}

// StoreAsync uploads a rendered meme in the background. Failures are
// logged and dropped.
func (svc *MediaArchiveService) StoreAsync(data []byte) {
	if !svc.enabled || svc.client == nil {
		return
	}

	go func() {
		objectName := fmt.Sprintf("memes/%s.png", uuid.NewString())
		_, err := svc.client.PutObject(gocontext.Background(), svc.bucketName, objectName,
			bytes.NewReader(data), int64(len(data)),
			minio.PutObjectOptions{ContentType: "image/png"})
		if err != nil {
			log.WithError(err).WithField("object", objectName).Warn("Meme archive upload failed")
			return
		}
		log.WithField("object", objectName).Debug("Meme archived")
	}()
}
