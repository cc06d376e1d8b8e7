package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/wb-go/wbf/zlog"

	"github.com/hj010/Image-Process/internal/domain"
)

// ProcessorUsecase drives one request through fetch, transcode and store for
// every product URL, then flips the request to completed and fires the
// webhook. Per-URL failures are logged and skipped; they never abort the
// request.
type ProcessorUsecase struct {
	repo        domain.RequestRepository
	fetcher     domain.ImageFetcher
	transcoder  domain.ImageTranscoder
	store       domain.ArtifactStore
	notifier    domain.WebhookNotifier
	concurrency int
}

func NewProcessorUsecase(
	repo domain.RequestRepository,
	fetcher domain.ImageFetcher,
	transcoder domain.ImageTranscoder,
	store domain.ArtifactStore,
	notifier domain.WebhookNotifier,
	concurrency int,
) *ProcessorUsecase {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &ProcessorUsecase{
		repo:        repo,
		fetcher:     fetcher,
		transcoder:  transcoder,
		store:       store,
		notifier:    notifier,
		concurrency: concurrency,
	}
}

func (u *ProcessorUsecase) ProcessRequest(ctx context.Context, requestID string) error {
	request, err := u.repo.GetRequest(ctx, requestID)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("request_id", requestID).Msg("failed to load request")
		return fmt.Errorf("load request: %w", err)
	}

	if request.IsCompleted() {
		zlog.Logger.Warn().
			Err(domain.ErrAlreadyCompleted).
			Str("request_id", requestID).
			Msg("skipping re-run")
		return nil
	}

	products, err := u.repo.ListProducts(ctx, requestID)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("request_id", requestID).Msg("failed to list products")
		return fmt.Errorf("list products: %w", err)
	}

	zlog.Logger.Info().
		Str("request_id", requestID).
		Int("products", len(products)).
		Msg("starting request processing")

	for _, product := range products {
		if err := ctx.Err(); err != nil {
			return err
		}

		outputs := u.processProduct(ctx, product)
		status := domain.OutcomeStatus(len(product.InputImageURLs), len(outputs))

		if err := u.repo.UpdateProductOutputs(ctx, product.ID, outputs, status); err != nil {
			zlog.Logger.Error().
				Err(err).
				Str("request_id", requestID).
				Int64("product_id", product.ID).
				Msg("failed to persist product outputs")
			return fmt.Errorf("update product %d: %w", product.ID, err)
		}
	}

	// Completed status is durable before the webhook fires, so a delivery
	// failure can never affect persisted state.
	if err := u.repo.SetRequestStatus(ctx, requestID, domain.RequestCompleted); err != nil {
		zlog.Logger.Error().Err(err).Str("request_id", requestID).Msg("failed to complete request")
		return fmt.Errorf("complete request: %w", err)
	}

	if err := u.notifier.Notify(ctx, requestID, domain.RequestCompleted); err != nil {
		zlog.Logger.Error().
			Err(err).
			Str("request_id", requestID).
			Msg("webhook notification failed, completion already committed")
	}

	zlog.Logger.Info().
		Str("request_id", requestID).
		Int("products", len(products)).
		Msg("request processing finished")

	return nil
}

// processProduct runs fetch+transcode+store for every input URL through a
// bounded worker pool. Results stay indexed by input position so the output
// list preserves input order with failed URLs dropped.
func (u *ProcessorUsecase) processProduct(ctx context.Context, product *domain.Product) []string {
	urls := product.InputImageURLs
	results := make([]string, len(urls))
	succeeded := make([]bool, len(urls))

	sem := make(chan struct{}, u.concurrency)
	var wg sync.WaitGroup

	for i, url := range urls {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(i int, url string) {
			defer wg.Done()
			defer func() { <-sem }()

			ref, err := u.processURL(ctx, url)
			if err != nil {
				zlog.Logger.Warn().
					Err(err).
					Str("request_id", product.RequestID).
					Int64("product_id", product.ID).
					Str("url", url).
					Msg("skipping failed image url")
				return
			}

			results[i] = ref
			succeeded[i] = true
		}(i, url)
	}

	wg.Wait()

	outputs := make([]string, 0, len(urls))
	for i := range urls {
		if succeeded[i] {
			outputs = append(outputs, results[i])
		}
	}
	return outputs
}

func (u *ProcessorUsecase) processURL(ctx context.Context, url string) (string, error) {
	data, err := u.fetcher.Fetch(ctx, url)
	if err != nil {
		return "", err
	}

	transcoded, err := u.transcoder.Transcode(data)
	if err != nil {
		return "", err
	}

	ref, err := u.store.Store(ctx, transcoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrStorageFailed, err)
	}

	return ref, nil
}
