package generator

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/content-synth/internal/caption"
	"github.com/content-synth/internal/catalog"
	"github.com/content-synth/internal/config"
	"github.com/content-synth/internal/hashtag"
	"github.com/content-synth/internal/media"
	"github.com/content-synth/internal/models"
	"github.com/content-synth/internal/session"
	"github.com/content-synth/internal/storage"
	"github.com/content-synth/pkg/logger"
)

// CaptionGenerator produces caption text for a request
type CaptionGenerator interface {
	GenerateCaption(ctx context.Context, req *models.CaptionRequest) (string, error)
}

// ImageFinder finds an image for a visual prompt at roughly the requested size
type ImageFinder interface {
	FindImage(ctx context.Context, prompt string, width, height int) (*models.ImageResult, error)
}

// Tracker receives generation records for external review
type Tracker interface {
	AppendRecords(ctx context.Context, records []*models.GenerationRecord) error
}

// Agent turns campaign inputs into captions with hashtags, length checks and alignment scores
type Agent struct {
	catalog    *catalog.Catalog
	assembler  *hashtag.Assembler
	evaluator  *caption.Evaluator
	captions   CaptionGenerator
	images     ImageFinder
	repository storage.Repository
	tracker    Tracker
	media      config.MediaConfig
	log        *logger.Logger
}

// NewAgent creates a new generator agent
func NewAgent(cat *catalog.Catalog, captions CaptionGenerator, log *logger.Logger) (*Agent, error) {
	if cat == nil {
		return nil, fmt.Errorf("%w: catalog is required", models.ErrConfigurationMissing)
	}
	if captions == nil {
		return nil, fmt.Errorf("%w: caption generator is required", models.ErrConfigurationMissing)
	}

	return &Agent{
		catalog:   cat,
		assembler: hashtag.NewAssembler(cat),
		evaluator: caption.NewEvaluator(cat),
		captions:  captions,
		media: config.MediaConfig{
			FallbackToText: true,
			Width:          media.SizeSquare.Width,
			Height:         media.SizeSquare.Height,
		},
		log: log.WithComponent("generator"),
	}, nil
}

// SetRepository enables persistence of successful generations
func (a *Agent) SetRepository(repo storage.Repository) {
	a.repository = repo
}

// SetTracker enables appending generations to the tracking sheet
func (a *Agent) SetTracker(t Tracker) {
	a.tracker = t
}

// SetImageFinder enables image lookup with the given media settings
func (a *Agent) SetImageFinder(f ImageFinder, cfg config.MediaConfig) {
	a.images = f
	a.media = cfg
}

// Catalog returns the catalog the agent generates from
func (a *Agent) Catalog() *catalog.Catalog {
	return a.catalog
}

// GenerateOptions tunes a single generation
type GenerateOptions struct {
	// Seed fixes the hashtag draw; nil draws a fresh seed
	Seed *uint64
	// WithImage requests an image even when media is not enabled by default
	WithImage bool
	// Strict rejects platforms and campaign types missing from the catalog
	Strict bool
}

// Generate runs one generation for the session. The result is appended to the
// session history only when every required step succeeds.
func (a *Agent) Generate(ctx context.Context, sess *session.Session, in models.CampaignInput, opts GenerateOptions) (*models.GenerationResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	platform, err := a.resolvePlatform(in, opts.Strict)
	if err != nil {
		return nil, err
	}

	personaName := a.catalog.SelectPersona(in.CampaignType)
	persona := a.catalog.Persona(personaName)

	log := a.log.WithGeneration(platform.Name, persona.Name)
	if sess != nil {
		log = log.WithSession(sess.ID())
	}

	seed := hashtag.NewSeed()
	if opts.Seed != nil {
		seed = *opts.Seed
	}
	rng := hashtag.NewRand(&seed)

	hashtags := a.assembler.Assemble(hashtag.Request{
		Persona:      persona.Name,
		Platform:     platform,
		CampaignType: in.CampaignType,
	}, rng)

	log.Info().
		Str("campaign_type", in.CampaignType).
		Int("hashtags", len(hashtags)).
		Msg("Generating caption")

	text, err := a.captions.GenerateCaption(ctx, &models.CaptionRequest{
		Persona:      persona,
		Platform:     platform.Name,
		CharLimit:    platform.CharLimit,
		CampaignType: in.CampaignType,
		CourseTitle:  in.CourseTitle,
		BrandTone:    in.BrandTone,
		Keywords:     in.Keywords,
	})
	if err != nil {
		log.Error().Err(err).Msg("Caption generation failed")
		return nil, fmt.Errorf("%w: caption generation: %v", models.ErrExternalService, err)
	}

	status, count := a.evaluator.ClassifyForPlatform(text, platform)
	score := a.evaluator.ScoreAlignment(text, persona.Name, in.BrandTone)

	result := &models.GenerationResult{
		ID: uuid.NewString(),
		Request: models.CampaignRequest{
			Platform:     platform.Name,
			CampaignType: in.CampaignType,
			Persona:      persona.Name,
			CourseTitle:  in.CourseTitle,
			BrandTone:    in.BrandTone,
			Keywords:     in.Keywords,
		},
		Caption:        text,
		Hashtags:       hashtags,
		LengthStatus:   status,
		CharCount:      count,
		CharLimit:      platform.CharLimit,
		AlignmentScore: score,
		Seed:           seed,
		Timestamp:      time.Now().UTC(),
	}

	if opts.WithImage || a.media.Enabled {
		img, err := a.findImage(ctx, persona, in)
		if err != nil {
			if !a.media.FallbackToText {
				log.Error().Err(err).Msg("Image lookup failed")
				return nil, fmt.Errorf("%w: image lookup: %v", models.ErrExternalService, err)
			}
			log.Warn().Err(err).Msg("Image lookup failed, continuing text-only")
		}
		result.Image = img
	}

	if sess != nil {
		sess.Append(result)
	}

	log.Info().
		Str("result_id", result.ID).
		Str("length_status", string(status)).
		Int("chars", count).
		Int("alignment", score).
		Msg("Caption generated")

	a.persist(ctx, sess, result, log)

	return result, nil
}

func (a *Agent) resolvePlatform(in models.CampaignInput, strict bool) (catalog.PlatformProfile, error) {
	if !strict {
		return a.catalog.Platform(in.Platform), nil
	}
	platform, err := a.catalog.LookupPlatform(in.Platform)
	if err != nil {
		return catalog.PlatformProfile{}, err
	}
	if in.CampaignType != "" && !slices.Contains(a.catalog.CampaignTypes(), in.CampaignType) {
		return catalog.PlatformProfile{}, fmt.Errorf("campaign type %q: %w", in.CampaignType, catalog.ErrNotFound)
	}
	return platform, nil
}

func (a *Agent) findImage(ctx context.Context, persona catalog.Persona, in models.CampaignInput) (*models.ImageResult, error) {
	if a.images == nil {
		return nil, fmt.Errorf("no image provider configured")
	}
	prompt := media.BuildVisualPrompt(persona, in.CampaignType, in.BrandTone)
	return a.images.FindImage(ctx, prompt, a.media.Width, a.media.Height)
}

// persist saves and tracks a successful result. Failures here never undo the generation.
func (a *Agent) persist(ctx context.Context, sess *session.Session, result *models.GenerationResult, log *logger.Logger) {
	if a.repository == nil && a.tracker == nil {
		return
	}

	sessionID := ""
	if sess != nil {
		sessionID = sess.ID()
	}
	rec := models.NewRecord(sessionID, result)

	saved := false
	if a.repository != nil {
		if err := a.repository.SaveGeneration(ctx, rec); err != nil {
			log.Warn().Err(err).Msg("Failed to save generation")
		} else {
			saved = true
		}
	}

	if a.tracker == nil {
		return
	}
	if err := a.tracker.AppendRecords(ctx, []*models.GenerationRecord{rec}); err != nil {
		// Saved records stay untracked and are picked up by the next sync
		log.Warn().Err(err).Msg("Failed to track generation")
		return
	}
	if saved {
		if err := a.repository.MarkTracked(ctx, []uint{rec.ID}); err != nil {
			log.Warn().Err(err).Msg("Failed to mark generation tracked")
		}
	}
}
