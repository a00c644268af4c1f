// Package source materializes a job's input video as a local file. Local
// paths are validated in place; URLs are downloaded into the job directory.
package source

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"clipforge/config"
	"clipforge/internal/types"
	"clipforge/log"
	apperrors "clipforge/pkg/errors"
	"clipforge/pkg/util"
)

// localPrefix lets callers pass pre-staged files through the URL field.
const localPrefix = "local:"

type Resolver struct {
	client *resty.Client
}

func NewResolver() *Resolver {
	client := resty.New()
	if config.Conf.App.Proxy != "" {
		client.SetProxy(config.Conf.App.Proxy)
	}
	return &Resolver{client: client}
}

// Resolve returns a readable local path for the descriptor, downloading
// remote sources into destDir first.
func (r *Resolver) Resolve(ctx context.Context, desc types.SourceDescriptor, destDir string) (string, error) {
	switch {
	case desc.FilePath != "":
		return resolveLocal(desc.FilePath)
	case strings.HasPrefix(desc.URL, localPrefix):
		return resolveLocal(strings.TrimPrefix(desc.URL, localPrefix))
	case desc.URL != "":
		return r.download(ctx, desc.URL, destDir)
	default:
		return "", apperrors.New(apperrors.CodeInvalidSource, "no source file or url given")
	}
}

func resolveLocal(filePath string) (string, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeInvalidSource, "source file not accessible", err)
	}
	if info.IsDir() {
		return "", apperrors.New(apperrors.CodeInvalidSource, "source path is a directory")
	}
	return filePath, nil
}

func (r *Resolver) download(ctx context.Context, rawUrl, destDir string) (string, error) {
	parsed, err := url.Parse(rawUrl)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", apperrors.New(apperrors.CodeInvalidSource, "source url must be http or https")
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", apperrors.Wrap(apperrors.CodeInternal, "create download directory", err)
	}

	name := util.SanitizePathName(path.Base(parsed.Path))
	if name == "" || name == "." || name == "/" {
		name = "source_" + util.GenerateRandStringWithUpperLowerNum(8)
	}
	dest := filepath.Join(destDir, name)

	log.GetLogger().Info("downloading source", zap.String("url", rawUrl), zap.String("dest", dest))
	resp, err := r.client.R().
		SetContext(ctx).
		SetOutput(dest).
		Get(rawUrl)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeInvalidSource, "source download failed", err)
	}
	if resp.IsError() {
		os.Remove(dest)
		return "", apperrors.New(apperrors.CodeInvalidSource, "source download failed: "+resp.Status())
	}
	return dest, nil
}
