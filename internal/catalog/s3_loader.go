package catalog

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// ObjectGetter is the subset of the S3 client the loader needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// s3Loader reads catalogue objects from one bucket. Keys ending in .gz are
// gunzipped before decoding.
type s3Loader struct {
	client ObjectGetter
	bucket string
	logger zerolog.Logger
}

// NewS3Loader builds a bucket loader from the default AWS credential chain.
func NewS3Loader(ctx context.Context, bucket, region string, logger zerolog.Logger) (Loader, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("aws config for catalogue bucket %s: %w", bucket, err)
	}

	loader := NewS3LoaderWithClient(s3.NewFromConfig(awsCfg), bucket, logger)
	logger.Debug().Str("bucket", bucket).Str("region", region).Msg("catalogue bucket ready")
	return loader, nil
}

// NewS3LoaderWithClient wraps an existing client. Tests pass a fake here.
func NewS3LoaderWithClient(client ObjectGetter, bucket string, logger zerolog.Logger) Loader {
	return &s3Loader{
		client: client,
		bucket: bucket,
		logger: logger.With().
			Str("component", "s3-catalog-loader").
			Str("bucket", bucket).
			Logger(),
	}
}

// Load fetches key and decodes it as a product array.
func (l *s3Loader) Load(ctx context.Context, key string) (*Catalog, error) {
	log := l.logger.With().Str("key", key).Logger()

	obj, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		log.Debug().Err(err).Msg("catalogue object unavailable")
		return nil, fmt.Errorf("get s3://%s/%s: %w", l.bucket, key, err)
	}
	defer obj.Body.Close()

	products, err := decode(ctx, obj.Body, strings.HasSuffix(key, ".gz"))
	if err != nil {
		log.Error().Err(err).Msg("catalogue object is not a product list")
		return nil, fmt.Errorf("decode s3://%s/%s: %w", l.bucket, key, err)
	}

	log.Info().Int("products", products.Len()).Msg("catalogue read from bucket")
	return products, nil
}

// fallbackLoader prefers the bucket copy of a catalogue file and reads the
// local file when the bucket is off or the object cannot be used.
type fallbackLoader struct {
	remote    Loader
	local     Loader
	keyPrefix string
	useRemote bool
	logger    zerolog.Logger
}

// NewFallbackLoader combines a bucket loader with a file loader. A nil
// remote loader or enabled=false reads local files only.
func NewFallbackLoader(remote, local Loader, keyPrefix string, enabled bool, logger zerolog.Logger) Loader {
	return &fallbackLoader{
		remote:    remote,
		local:     local,
		keyPrefix: keyPrefix,
		useRemote: enabled && remote != nil,
		logger:    logger.With().Str("component", "fallback-loader").Logger(),
	}
}

// Load looks for the file name under the key prefix, then reads filePath.
func (l *fallbackLoader) Load(ctx context.Context, filePath string) (*Catalog, error) {
	if !l.useRemote {
		return l.local.Load(ctx, filePath)
	}

	key := l.keyPrefix + path.Base(filePath)
	products, err := l.remote.Load(ctx, key)
	if err == nil {
		return products, nil
	}

	l.logger.Warn().
		Err(err).
		Str("s3_key", key).
		Str("path", filePath).
		Msg("bucket copy unusable, reading local catalogue")
	return l.local.Load(ctx, filePath)
}
