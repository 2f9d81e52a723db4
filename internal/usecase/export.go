package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vadimbarashkov/brevly/internal/entity"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	exportContentType  = "text/csv"
	exportCacheControl = "public, max-age=3600"
	exportTimeLayout   = "2006-01-02T15:04:05.000Z"
	exportSuffixChars  = "0123456789abcdef"
	exportSuffixLength = 8
)

var exportHeader = []string{"URL Original", "URL Encurtada", "Contagem de Acessos", "Data de Criação"}

var fileNameReplacer = strings.NewReplacer(":", "-", ".", "-")

type linkLister interface {
	RetrieveAll(ctx context.Context) ([]entity.Link, error)
}

type objectStorage interface {
	Put(ctx context.Context, obj entity.Object) error
}

type ExportUseCase struct {
	linkRepo  linkLister
	storage   objectStorage
	publicURL string
	now       func() time.Time
}

func NewExportUseCase(linkRepo linkLister, storage objectStorage, publicURL string) *ExportUseCase {
	return &ExportUseCase{
		linkRepo:  linkRepo,
		storage:   storage,
		publicURL: strings.TrimRight(publicURL, "/"),
		now:       time.Now,
	}
}

// ExportLinks writes every link to a CSV report, uploads it and returns where it can be downloaded.
// Upload failures are returned as is; nothing is retried.
func (uc *ExportUseCase) ExportLinks(ctx context.Context) (*entity.Export, error) {
	const op = "usecase.ExportUseCase.ExportLinks"

	links, err := uc.linkRepo.RetrieveAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list links: %w", op, err)
	}

	fileName, err := exportFileName(uc.now())
	if err != nil {
		return nil, fmt.Errorf("%s: failed to generate file name: %w", op, err)
	}

	obj := entity.Object{
		Key:          fileName,
		ContentType:  exportContentType,
		CacheControl: exportCacheControl,
		Body:         BuildCSV(links),
	}

	if err := uc.storage.Put(ctx, obj); err != nil {
		return nil, fmt.Errorf("%s: failed to upload report: %w", op, err)
	}

	return &entity.Export{
		FileName:  fileName,
		PublicURL: uc.publicURL + "/" + fileName,
	}, nil
}

// BuildCSV renders links as CSV. Every cell is quoted, quotes are doubled and rows are
// separated by a single newline without a trailing one.
func BuildCSV(links []entity.Link) []byte {
	var b strings.Builder

	writeCSVRow(&b, exportHeader)

	for _, link := range links {
		b.WriteByte('\n')
		writeCSVRow(&b, []string{
			link.OriginalURL,
			link.ShortURL,
			strconv.FormatInt(link.AccessCount, 10),
			link.CreatedAt.UTC().Format(exportTimeLayout),
		})
	}

	return []byte(b.String())
}

func writeCSVRow(b *strings.Builder, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		b.WriteByte('"')
	}
}

// exportFileName returns links-export-<timestamp>-<hex>.csv with colons and periods
// in the timestamp replaced by hyphens.
func exportFileName(now time.Time) (string, error) {
	suffix, err := gonanoid.Generate(exportSuffixChars, exportSuffixLength)
	if err != nil {
		return "", err
	}

	timestamp := fileNameReplacer.Replace(now.UTC().Format(exportTimeLayout))

	return fmt.Sprintf("links-export-%s-%s.csv", timestamp, suffix), nil
}
