package storage

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	apperrors "go-visual-auditor/internal/errors"
)

// ArtifactStore persists generated artifacts (heatmap overlays) and
// returns a public URL for each.
type ArtifactStore interface {
	SaveHeatmap(ctx context.Context, name string, pngData []byte) (string, error)
}

type azureArtifactStore struct {
	client    *azblob.Client
	account   string
	container string
}

// NewAzureArtifactStore creates a shared-key Azure Blob artifact store
// writing into the given container.
func NewAzureArtifactStore(accountName, accountKey, container string) (ArtifactStore, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, apperrors.NewInternalError("invalid azure credentials", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to create azure client", err)
	}

	return &azureArtifactStore{client: client, account: accountName, container: container}, nil
}

func (s *azureArtifactStore) SaveHeatmap(ctx context.Context, name string, pngData []byte) (string, error) {
	blobName := name + ".png"

	_, err := s.client.UploadBuffer(ctx, s.container, blobName, pngData, nil)
	if err != nil {
		return "", apperrors.NewInternalError("heatmap upload failed", err)
	}

	return fmt.Sprintf("https://%s.blob.core.windows.net/%s/%s", s.account, s.container, blobName), nil
}
