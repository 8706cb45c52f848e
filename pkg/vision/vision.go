package vision

import (
	"context"
	"fmt"
	"log"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
)

// Classifier wraps the Cloud Vision SafeSearch API
type Classifier struct {
	client *vision.ImageAnnotatorClient
}

// NewClassifier creates a SafeSearch classifier using the provided credentials file
func NewClassifier(ctx context.Context, credentialsFile string) (*Classifier, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}

	log.Println("[Vision] Client initialized successfully")
	return &Classifier{client: client}, nil
}

// SafeSearchResult reports whether an image crossed the service's own
// thresholds for adult or violent content.
type SafeSearchResult struct {
	Adult    bool
	Violence bool
}

// DetectSafeSearch classifies the object at gs://<bucket>/<object> in a single request.
func (c *Classifier) DetectSafeSearch(ctx context.Context, bucket, object string) (*SafeSearchResult, error) {
	image := vision.NewImageFromURI(fmt.Sprintf("gs://%s/%s", bucket, object))

	annotation, err := c.client.DetectSafeSearch(ctx, image, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to detect safe search for %s/%s: %w", bucket, object, err)
	}

	return &SafeSearchResult{
		Adult:    flagged(annotation.GetAdult()),
		Violence: flagged(annotation.GetViolence()),
	}, nil
}

// Close releases the underlying connection.
func (c *Classifier) Close() error {
	return c.client.Close()
}

func flagged(likelihood visionpb.Likelihood) bool {
	return likelihood >= visionpb.Likelihood_LIKELY
}
