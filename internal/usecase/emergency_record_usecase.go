package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"lifesaver-qr/internal/converter"
	"lifesaver-qr/internal/delivery/dto"
	"lifesaver-qr/internal/domain/entity"
	"lifesaver-qr/internal/domain/repository"
	"lifesaver-qr/internal/infrastructure/metrics"
	"lifesaver-qr/pkg/qrcode"

	"github.com/sirupsen/logrus"
)

var (
	ErrRecordNotFound = errors.New("emergency record not found")
)

// Content types of generated artifacts
const (
	ContentTypePNG = "image/png"
	ContentTypePDF = "application/pdf"
)

// DocumentComposer renders the printable sticker sheet.
type DocumentComposer interface {
	Compose(record *entity.EmergencyRecord, profileURL string) ([]byte, error)
}

// ProfileCache holds public profiles between lookups. Get returns nil on a miss.
type ProfileCache interface {
	Get(ctx context.Context, id string) (*dto.PublicProfileResponse, error)
	Set(ctx context.Context, id string, profile dto.PublicProfileResponse) error
}

type EmergencyRecordUsecase interface {
	Create(ctx context.Context, req *dto.CreateEmergencyRecordRequest) (*dto.EmergencyRecordResponse, error)
	GetRecord(ctx context.Context, id string) (*dto.EmergencyRecordResponse, error)
	GetPublicProfile(ctx context.Context, id string) (*dto.PublicProfileResponse, error)
	GetQRCode(ctx context.Context, id string) (*dto.Artifact, error)
	GetDocument(ctx context.Context, id string) (*dto.Artifact, error)
}

type EmergencyRecordUsecaseConfig struct {
	BaseURL       string
	DefaultQRSize int
}

type emergencyRecordUsecase struct {
	recordRepo repository.EmergencyRecordRepository
	codes      qrcode.Renderer
	composer   DocumentComposer
	cache      ProfileCache
	metrics    *metrics.Metrics
	cfg        EmergencyRecordUsecaseConfig
	log        *logrus.Logger
	now        func() time.Time
}

// NewEmergencyRecordUsecase wires the record operations. cache and m may be
// nil.
func NewEmergencyRecordUsecase(
	recordRepo repository.EmergencyRecordRepository,
	codes qrcode.Renderer,
	composer DocumentComposer,
	cache ProfileCache,
	m *metrics.Metrics,
	cfg EmergencyRecordUsecaseConfig,
	log *logrus.Logger,
) EmergencyRecordUsecase {
	if cfg.DefaultQRSize <= 0 {
		cfg.DefaultQRSize = 200
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &emergencyRecordUsecase{
		recordRepo: recordRepo,
		codes:      codes,
		composer:   composer,
		cache:      cache,
		metrics:    m,
		cfg:        cfg,
		log:        log,
		now:        time.Now,
	}
}

func (u *emergencyRecordUsecase) Create(ctx context.Context, req *dto.CreateEmergencyRecordRequest) (*dto.EmergencyRecordResponse, error) {
	record, err := entity.NewEmergencyRecord(converter.CreateRequestToInput(req), u.now())
	if err != nil {
		return nil, err
	}

	if err := u.recordRepo.Create(ctx, record); err != nil {
		u.log.Warnf("Failed to create emergency record: %+v", err)
		return nil, fmt.Errorf("create emergency record: %w", err)
	}

	u.metrics.IncrementRecordsCreated()
	u.log.Infof("Emergency record %s created", record.ID)

	return converter.EmergencyRecordToResponse(record), nil
}

func (u *emergencyRecordUsecase) GetRecord(ctx context.Context, id string) (*dto.EmergencyRecordResponse, error) {
	record, err := u.findRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	return converter.EmergencyRecordToResponse(record), nil
}

func (u *emergencyRecordUsecase) GetPublicProfile(ctx context.Context, id string) (*dto.PublicProfileResponse, error) {
	if u.cache != nil {
		cached, err := u.cache.Get(ctx, id)
		if err != nil {
			u.log.Warnf("Failed to read profile cache for %s: %+v", id, err)
		}
		u.metrics.ObserveCacheLookup(cached != nil)
		if cached != nil {
			return cached, nil
		}
	}

	record, err := u.findRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	profile := converter.RecordToPublicProfile(record)

	if u.cache != nil {
		if err := u.cache.Set(ctx, id, profile); err != nil {
			u.log.Warnf("Failed to cache profile %s: %+v", id, err)
		}
	}

	return &profile, nil
}

func (u *emergencyRecordUsecase) GetQRCode(ctx context.Context, id string) (*dto.Artifact, error) {
	record, err := u.findRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	size := u.cfg.DefaultQRSize
	data, err := u.codes.Render(u.profileURL(record.ID), size, size)
	if err != nil {
		u.metrics.IncrementArtifactFailure(metrics.ArtifactQRCode)
		u.log.Warnf("Failed to generate QR code for %s: %+v", record.ID, err)
		return nil, fmt.Errorf("generate qr code: %w", err)
	}

	u.metrics.IncrementArtifact(metrics.ArtifactQRCode)
	return &dto.Artifact{
		Data:        data,
		ContentType: ContentTypePNG,
		Filename:    record.ID + "-qr.png",
	}, nil
}

func (u *emergencyRecordUsecase) GetDocument(ctx context.Context, id string) (*dto.Artifact, error) {
	record, err := u.findRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := u.composer.Compose(record, u.profileURL(record.ID))
	if err != nil {
		u.metrics.IncrementArtifactFailure(metrics.ArtifactDocument)
		u.log.Warnf("Failed to generate document for %s: %+v", record.ID, err)
		return nil, err
	}

	u.metrics.IncrementArtifact(metrics.ArtifactDocument)
	return &dto.Artifact{
		Data:        data,
		ContentType: ContentTypePDF,
		Filename:    DocumentFilename(record.Name),
	}, nil
}

func (u *emergencyRecordUsecase) findRecord(ctx context.Context, id string) (*entity.EmergencyRecord, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrRecordNotFound
	}

	record, err := u.recordRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find emergency record %s: %+v", id, err)
		return nil, fmt.Errorf("find emergency record: %w", err)
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}
	return record, nil
}

// profileURL is rebuilt per request so a BaseURL change applies to every
// existing record.
func (u *emergencyRecordUsecase) profileURL(id string) string {
	return u.cfg.BaseURL + "/profile/" + id
}

// DocumentFilename derives the download name of a sticker sheet. Path
// separators, quotes and control characters are replaced.
func DocumentFilename(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == '"' || r == ':':
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, strings.TrimSpace(name))

	if clean == "" {
		clean = "record"
	}
	return clean + "-LifeSaver.pdf"
}
