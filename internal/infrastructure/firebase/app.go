package firebase

import (
	"context"
	"fmt"

	fbapp "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// ClientOptions picks credentials: inline JSON first, then a key file, else
// application default credentials.
func ClientOptions(serviceAccountJSON, serviceAccountPath string) []option.ClientOption {
	switch {
	case serviceAccountJSON != "":
		return []option.ClientOption{option.WithCredentialsJSON([]byte(serviceAccountJSON))}
	case serviceAccountPath != "":
		return []option.ClientOption{option.WithCredentialsFile(serviceAccountPath)}
	default:
		return nil
	}
}

func NewApp(ctx context.Context, projectID string, opts ...option.ClientOption) (*fbapp.App, error) {
	app, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase: %w", err)
	}
	return app, nil
}
