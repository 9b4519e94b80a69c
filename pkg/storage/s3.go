package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"github.com/AlanDanielGC/hr-hub-main-sub001/config"
)

// ErrObjectExists 非覆盖模式下对象已存在
var ErrObjectExists = errors.New("对象已存在")

// Storage 文档对象存储接口
type Storage interface {
	// Put 上传对象；overwrite 为 false 时若对象已存在返回 ErrObjectExists
	Put(ctx context.Context, bucket, key string, data []byte, contentType string, overwrite bool) error
	// PublicURL 返回对象的公开访问地址
	PublicURL(bucket, key string) string
}

// S3Storage 基于 aws-sdk-go-v2 的 S3（或兼容服务）实现
type S3Storage struct {
	client     *s3.Client
	region     string
	endpoint   string
	pathStyle  bool
	publicBase string
	logger     *zap.Logger
}

// NewS3Storage 按配置创建 S3 客户端
// 凭证沿用 AWS 默认凭证链（环境变量、共享配置、实例角色）
func NewS3Storage(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (*S3Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("加载 AWS 配置失败: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	logger.Info("对象存储已初始化",
		zap.String("region", cfg.Region),
		zap.String("endpoint", cfg.Endpoint),
	)

	return &S3Storage{
		client:     client,
		region:     cfg.Region,
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		pathStyle:  cfg.UsePathStyle,
		publicBase: strings.TrimRight(cfg.PublicBaseURL, "/"),
		logger:     logger,
	}, nil
}

func (s *S3Storage) Put(ctx context.Context, bucket, key string, data []byte, contentType string, overwrite bool) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if !overwrite {
		input.IfNoneMatch = aws.String("*")
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "PreconditionFailed" {
			return ErrObjectExists
		}
		return fmt.Errorf("上传对象 %s/%s 失败: %w", bucket, key, err)
	}

	s.logger.Debug("对象上传成功", zap.String("bucket", bucket), zap.String("key", key), zap.Int("size", len(data)))
	return nil
}

func (s *S3Storage) PublicURL(bucket, key string) string {
	return BuildPublicURL(s.publicBase, s.endpoint, s.region, s.pathStyle, bucket, key)
}

// BuildPublicURL 拼接对象公开地址
// 优先使用 public_base_url（CDN 或网关），其次自定义端点，最后 AWS 虚拟主机风格地址
func BuildPublicURL(publicBase, endpoint, region string, pathStyle bool, bucket, key string) string {
	escaped := escapeKey(key)
	switch {
	case publicBase != "":
		return fmt.Sprintf("%s/%s/%s", publicBase, bucket, escaped)
	case endpoint != "":
		if pathStyle {
			return fmt.Sprintf("%s/%s/%s", endpoint, bucket, escaped)
		}
		u, err := url.Parse(endpoint)
		if err != nil || u.Host == "" {
			return fmt.Sprintf("%s/%s/%s", endpoint, bucket, escaped)
		}
		return fmt.Sprintf("%s://%s.%s/%s", u.Scheme, bucket, u.Host, escaped)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, escaped)
	}
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
