package salesync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/posbridge/pkg/db/models"
	pkgerrors "github.com/angelmondragon/posbridge/pkg/errors"
	"github.com/angelmondragon/posbridge/pkg/lightspeed"
	"github.com/angelmondragon/posbridge/pkg/logger"
	"github.com/angelmondragon/posbridge/pkg/metrics"
)

const businessDateLayout = "2006-01-02"

// VendorGateway is the slice of the vendor client the sync service needs.
type VendorGateway interface {
	FetchSales(ctx context.Context, locationID string, from, to time.Time) ([]lightspeed.RawSale, error)
	FetchDailySales(ctx context.Context, locationID string, date string) (*lightspeed.DailySalesReport, error)
}

// ConnectionStore is the slice of the connections repository the sync service
// needs: lookup plus the forward-only watermark.
type ConnectionStore interface {
	ListActive(ctx context.Context) ([]models.PosConnection, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.PosConnection, error)
	SetWatermark(ctx context.Context, id uuid.UUID, ts time.Time) error
}

// ServiceParams bundles the dependencies of the sync service.
type ServiceParams struct {
	Logger      *logger.Logger
	Gateway     VendorGateway
	Sales       Repository
	Connections ConnectionStore
	Metrics     *metrics.SyncJobMetrics

	// MaxConcurrent bounds how many connections a batch run syncs at once.
	MaxConcurrent int
	// InitialLookback is the incremental window for a connection that has
	// never synced.
	InitialLookback time.Duration
	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

// Service orchestrates fetch, map, store and watermark advancement for every
// sync mode. Records are written before the watermark ever moves, so a crash
// between the two re-syncs an already-stored window instead of skipping one.
type Service struct {
	logg            *logger.Logger
	gateway         VendorGateway
	sales           Repository
	connections     ConnectionStore
	metrics         *metrics.SyncJobMetrics
	maxConcurrent   int
	initialLookback time.Duration
	now             func() time.Time
}

// NewService builds the sync service.
func NewService(params ServiceParams) *Service {
	if params.MaxConcurrent <= 0 {
		params.MaxConcurrent = 1
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &Service{
		logg:            params.Logger,
		gateway:         params.Gateway,
		sales:           params.Sales,
		connections:     params.Connections,
		metrics:         params.Metrics,
		maxConcurrent:   params.MaxConcurrent,
		initialLookback: params.InitialLookback,
		now:             params.Now,
	}
}

// InitialLoad backfills one connection over an explicit window and, once every
// record is persisted, stamps the watermark at the window's end so the next
// incremental run picks up from there.
func (s *Service) InitialLoad(ctx context.Context, connectionID uuid.UUID, from, to time.Time) (*Report, error) {
	conn, err := s.connections.FindByID(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	ctx = s.syncContext(ctx, conn, ModeInitial)

	raw, err := s.gateway.FetchSales(ctx, conn.BusinessLocationID, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeOf(err), err, "initial load fetch")
	}

	report := s.persistWindow(ctx, conn, raw, ModeInitial)
	if report.Fetched > 0 && report.StoredSales == 0 {
		s.logg.Warn(ctx, "initial load stored nothing, watermark not advanced")
		return report, nil
	}
	if err := s.connections.SetWatermark(ctx, conn.ID, to.UTC()); err != nil {
		return report, err
	}
	wm := to.UTC()
	report.Watermark = &wm
	s.logg.Info(ctx, fmt.Sprintf("initial load done: fetched=%d stored=%d failed=%d", report.Fetched, report.StoredSales, report.Failed))
	return report, nil
}

// DailySync reconciles yesterday's business date (in the connection's
// timezone) against the vendor's daily report. An unfinalized report is
// skipped without touching the database, and the watermark is never advanced
// here: the daily mode corrects data, it does not track progress.
func (s *Service) DailySync(ctx context.Context, conn *models.PosConnection) (*Report, error) {
	ctx = s.syncContext(ctx, conn, ModeDaily)

	date := s.now().In(conn.Location()).AddDate(0, 0, -1).Format(businessDateLayout)
	daily, err := s.gateway.FetchDailySales(ctx, conn.BusinessLocationID, date)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeOf(err), err, "daily sales fetch")
	}

	if !daily.DataComplete {
		s.logg.Info(ctx, fmt.Sprintf("daily report for %s not finalized yet, skipping", date))
		return &Report{ConnectionID: conn.ID, Mode: ModeDaily, Fetched: len(daily.Sales), Skipped: true}, nil
	}

	report := s.persistWindow(ctx, conn, daily.Sales, ModeDaily)
	report.Watermark = nil
	err = s.sales.UpsertDailySales(ctx, &models.DailySales{
		BusinessLocationID: conn.BusinessLocationID,
		BusinessDate:       date,
		DataComplete:       true,
		TotalSales:         parseAmount(daily.TotalSales),
	})
	if err != nil {
		return report, err
	}
	s.logg.Info(ctx, fmt.Sprintf("daily sync done for %s: fetched=%d stored=%d failed=%d", date, report.Fetched, report.StoredSales, report.Failed))
	return report, nil
}

// IncrementalSync pulls the window since the connection's watermark and, once
// the records are stored, advances the watermark to the latest close time seen.
// An empty window leaves the watermark untouched, and a window where nothing
// could be stored withholds the advance so the records are retried next run.
func (s *Service) IncrementalSync(ctx context.Context, conn *models.PosConnection) (*Report, error) {
	ctx = s.syncContext(ctx, conn, ModeIncremental)

	to := s.now().UTC()
	from := to.Add(-s.initialLookback)
	if conn.LastSync != nil {
		from = conn.LastSync.UTC()
	}

	raw, err := s.gateway.FetchSales(ctx, conn.BusinessLocationID, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeOf(err), err, "incremental fetch")
	}

	report := s.persistWindow(ctx, conn, raw, ModeIncremental)
	switch {
	case report.Fetched == 0:
		s.logg.Debug(ctx, "no new sales in window")
		report.Watermark = nil
	case report.StoredSales == 0:
		s.logg.Warn(ctx, "nothing stored this window, watermark not advanced")
		report.Watermark = nil
	case report.Watermark != nil:
		if err := s.connections.SetWatermark(ctx, conn.ID, *report.Watermark); err != nil {
			return report, err
		}
	}
	s.logg.Info(ctx, fmt.Sprintf("incremental sync done: fetched=%d stored=%d failed=%d", report.Fetched, report.StoredSales, report.Failed))
	return report, nil
}

// RunDailySync runs the daily mode over every active connection. Connections
// are synced concurrently up to the configured bound, and one connection's
// failure never aborts the others.
func (s *Service) RunDailySync(ctx context.Context) (*BatchReport, error) {
	return s.runBatch(ctx, s.DailySync)
}

// RunIncrementalSync runs the incremental mode over every active connection.
func (s *Service) RunIncrementalSync(ctx context.Context) (*BatchReport, error) {
	return s.runBatch(ctx, s.IncrementalSync)
}

func (s *Service) runBatch(ctx context.Context, syncOne func(context.Context, *models.PosConnection) (*Report, error)) (*BatchReport, error) {
	conns, err := s.connections.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	batch := newBatchReport()
	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.maxConcurrent)
	for _, conn := range conns {
		conn := conn
		group.Go(func() error {
			report, err := syncOne(groupCtx, &conn)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				batch.Failed[conn.ID] = err.Error()
				return nil
			}
			batch.Succeeded = append(batch.Succeeded, conn.ID)
			batch.Reports = append(batch.Reports, *report)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return batch, err
	}
	return batch, nil
}

// persistWindow maps and stores one fetched window. Failures are isolated per
// record: a sale that cannot be stored is counted and its lines skipped, but
// the rest of the window proceeds. The returned report's Watermark is the
// latest close time among mapped sales, nil when none carried one.
func (s *Service) persistWindow(ctx context.Context, conn *models.PosConnection, raw []lightspeed.RawSale, mode string) *Report {
	report := &Report{ConnectionID: conn.ID, Mode: mode, Fetched: len(raw)}
	s.metrics.AddFetched(mode, len(raw))

	sales, defects := ToSales(raw, conn.BusinessLocationID)
	report.Defects = len(defects)
	for _, defect := range defects {
		s.logg.Warn(ctx, fmt.Sprintf("dropping malformed sale %q: %s", defect.ReceiptID, defect.Reason))
	}

	linesByReceipt := make(map[string][]models.SaleLine)
	for _, line := range ToSaleLines(raw, conn.BusinessLocationID) {
		linesByReceipt[line.ReceiptID] = append(linesByReceipt[line.ReceiptID], line)
	}

	var maxClosed *time.Time
	for i := range sales {
		sale := &sales[i]
		if sale.TimeClosed != nil && (maxClosed == nil || sale.TimeClosed.After(*maxClosed)) {
			closed := *sale.TimeClosed
			maxClosed = &closed
		}

		if err := s.sales.UpsertSale(ctx, sale); err != nil {
			report.Failed++
			s.logg.Error(ctx, fmt.Sprintf("storing sale %s", sale.ReceiptID), err)
			continue
		}
		report.StoredSales++

		for j := range linesByReceipt[sale.ReceiptID] {
			line := &linesByReceipt[sale.ReceiptID][j]
			if err := s.sales.UpsertSaleLine(ctx, line); err != nil {
				report.Failed++
				s.logg.Error(ctx, fmt.Sprintf("storing sale line %s", line.LineID), err)
				continue
			}
			report.StoredLines++
		}
	}

	report.Watermark = maxClosed
	s.metrics.AddStored(mode, report.StoredSales+report.StoredLines)
	s.metrics.AddFailed(mode, report.Failed+report.Defects)
	return report
}

func (s *Service) syncContext(ctx context.Context, conn *models.PosConnection, mode string) context.Context {
	ctx = s.logg.WithConnectionID(ctx, conn.ID.String())
	ctx = s.logg.WithLocationID(ctx, conn.BusinessLocationID)
	return s.logg.WithSyncMode(ctx, mode)
}
