package evidence

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"boss-challenge-bot/model"
	"boss-challenge-bot/utils"

	"github.com/google/uuid"
)

// LocalStore writes evidence under a root directory on disk.
type LocalStore struct {
	root   string
	client *http.Client
	now    func() time.Time
}

func NewLocalStore(root string, client *http.Client) *LocalStore {
	if client == nil {
		client = utils.GlobalHTTPClient
	}
	return &LocalStore{root: root, client: client, now: time.Now}
}

func (l *LocalStore) Root() string {
	return l.root
}

// Save downloads req.URL and returns the written file path.
func (l *LocalStore) Save(ctx context.Context, req Request) (string, error) {
	name := ObjectName(req, l.now(), uuid.New())
	filePath := filepath.Join(l.root, filepath.FromSlash(Dir(req)), name)

	if _, err := utils.DownloadFile(ctx, l.client, req.URL, filePath); err != nil {
		return "", fmt.Errorf("%w: %s evidence: %v", model.ErrEvidenceUpload, req.Kind, err)
	}
	return filePath, nil
}
