package s3client

import "time"

type Option func(c *S3Client)

func ConnAttempts(attempts int) Option {
	return func(c *S3Client) {
		c.connAttempts = attempts
	}
}

func ConnTimeout(timeout time.Duration) Option {
	return func(c *S3Client) {
		c.connTimeout = timeout
	}
}

func Region(region string) Option {
	return func(c *S3Client) {
		if region != "" {
			c.region = region
		}
	}
}

// Endpoint overrides the service endpoint, e.g. for localstack or garage.
func Endpoint(endpoint string) Option {
	return func(c *S3Client) {
		c.endpoint = endpoint
	}
}

// StaticCredentials replaces the default credential chain. Empty keys keep the chain.
func StaticCredentials(accessKey, secretKey string) Option {
	return func(c *S3Client) {
		c.accessKey = accessKey
		c.secretKey = secretKey
	}
}

func UsePathStyle(use bool) Option {
	return func(c *S3Client) {
		c.usePathStyle = use
	}
}

// CheckBuckets makes New wait until every bucket answers HeadBucket.
func CheckBuckets(buckets ...string) Option {
	return func(c *S3Client) {
		c.checkBuckets = append(c.checkBuckets, buckets...)
	}
}
