package service

import (
	"context"
	"io"
	"strings"
	"time"

	"eventease/internal/cache"
	"eventease/internal/discover"
	"eventease/internal/geocode"
	"eventease/internal/model"
	"eventease/internal/queue"
	"eventease/internal/repository"
	"eventease/internal/storage"
	apperrors "eventease/pkg/app_errors"
	"eventease/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// homeListLimit 首頁精選與即將到來各顯示的活動數
const homeListLimit = 3

// publicFetchTimeout 共用的公開活動查詢不跟隨單一請求取消，但仍有上限
const publicFetchTimeout = 10 * time.Second

type EventService interface {
	// ListPublic 公開活動，依日期排序；先查快取，同時間只會有一個查詢打到資料庫
	ListPublic(ctx context.Context) ([]*model.Event, error)
	// Featured 報名人數最多的公開活動
	Featured(ctx context.Context) ([]*model.Event, error)
	// Upcoming 今天 (含) 之後最近的公開活動
	Upcoming(ctx context.Context) ([]*model.Event, error)
	// Discover 對公開活動執行篩選、排序、分頁
	Discover(ctx context.Context, req discover.Request) (*discover.Result, error)
	Get(ctx context.Context, eventID uuid.UUID) (*model.Event, error)
	Create(ctx context.Context, organizerID uuid.UUID, input model.EventInput, image io.Reader) (*model.Event, error)
	// Update 只有主辦人可以編輯
	Update(ctx context.Context, organizerID, eventID uuid.UUID, input model.EventInput, image io.Reader) (*model.Event, error)
	Delete(ctx context.Context, organizerID, eventID uuid.UUID) error
	TrackView(ctx context.Context, eventID uuid.UUID, viewerID *uuid.UUID) (int, error)
	ListOrganized(ctx context.Context, organizerID uuid.UUID) ([]*model.Event, error)
	ListRegistered(ctx context.Context, userID uuid.UUID) ([]*model.Event, error)
	Analytics(ctx context.Context, organizerID uuid.UUID) (*model.Analytics, error)
	// RefreshPublic 重新查詢公開活動並寫回快取，供背景 worker 使用
	RefreshPublic(ctx context.Context) error
}

type EventServiceImpl struct {
	repo             repository.EventRepository
	registrationRepo repository.RegistrationRepository
	queryCache       cache.QueryCache
	storage          storage.ObjectStorage
	geocoder         geocode.Geocoder
	feed             queue.ChangeFeed
	group            singleflight.Group
	retryBackoff     time.Duration
	clock            Clock
}

func NewEventService(
	repo repository.EventRepository,
	registrationRepo repository.RegistrationRepository,
	queryCache cache.QueryCache,
	objectStorage storage.ObjectStorage,
	geocoder geocode.Geocoder,
	feed queue.ChangeFeed,
	retryBackoff time.Duration,
) EventService {
	return &EventServiceImpl{
		repo:             repo,
		registrationRepo: registrationRepo,
		queryCache:       queryCache,
		storage:          objectStorage,
		geocoder:         geocoder,
		feed:             feed,
		retryBackoff:     retryBackoffOrDefault(retryBackoff),
	}
}

func (s *EventServiceImpl) ListPublic(ctx context.Context) ([]*model.Event, error) {
	if events, hit := cacheLookup[[]*model.Event](ctx, s.queryCache, cache.PublicEventsKey); hit {
		return events, nil
	}

	// 呼叫端取消時不中斷共用查詢，其他等待者仍可拿到結果
	ch := s.group.DoChan(cache.PublicEventsKey, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publicFetchTimeout)
		defer cancel()
		return s.fetchPublic(fetchCtx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]*model.Event), nil
	}
}

func (s *EventServiceImpl) fetchPublic(ctx context.Context) ([]*model.Event, error) {
	return loadAndStore(ctx, s.queryCache, cache.PublicEventsKey, func(ctx context.Context) ([]*model.Event, error) {
		return retryOnce(ctx, "list_public_events", s.retryBackoff, s.repo.ListPublic)
	})
}

func (s *EventServiceImpl) Featured(ctx context.Context) ([]*model.Event, error) {
	return cachedLoad(ctx, s.queryCache, cache.FeaturedEventsKey, func(ctx context.Context) ([]*model.Event, error) {
		return retryOnce(ctx, "list_featured_events", s.retryBackoff, func(ctx context.Context) ([]*model.Event, error) {
			return s.repo.ListFeatured(ctx, homeListLimit)
		})
	})
}

func (s *EventServiceImpl) Upcoming(ctx context.Context) ([]*model.Event, error) {
	today := s.clock.today()
	return cachedLoad(ctx, s.queryCache, cache.UpcomingEventsKey, func(ctx context.Context) ([]*model.Event, error) {
		return retryOnce(ctx, "list_upcoming_events", s.retryBackoff, func(ctx context.Context) ([]*model.Event, error) {
			return s.repo.ListUpcoming(ctx, today, homeListLimit)
		})
	})
}

func (s *EventServiceImpl) Discover(ctx context.Context, req discover.Request) (*discover.Result, error) {
	events, err := s.ListPublic(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if s.clock != nil {
		now = s.clock()
	}
	req.Today = now.Format(model.DateLayout)
	if discover.IsQuickPreset(req.Filter.QuickFilter) {
		req.Filter = req.Filter.WithQuickFilter(req.Filter.QuickFilter, now)
	}

	result := discover.Run(events, req)
	return &result, nil
}

func (s *EventServiceImpl) Get(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	return cachedLoad(ctx, s.queryCache, cache.EventKey(eventID), func(ctx context.Context) (*model.Event, error) {
		return retryOnce(ctx, "get_event", s.retryBackoff, func(ctx context.Context) (*model.Event, error) {
			return s.repo.FindByID(ctx, eventID)
		})
	})
}

func (s *EventServiceImpl) Create(ctx context.Context, organizerID uuid.UUID, input model.EventInput, image io.Reader) (*model.Event, error) {
	// 驗證必須在任何寫入 (含上傳) 之前
	if err := input.Validate(s.clock.today(), image != nil); err != nil {
		return nil, err
	}

	event := input.ToEvent(organizerID)

	uploaded := ""
	if image != nil {
		url, err := s.storage.Upload(ctx, storage.FolderEventImages, image)
		if err != nil {
			return nil, err
		}
		uploaded = url
		event.ImageURL = url
	}

	s.locate(ctx, event)

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		if uploaded != "" {
			s.removeImage(uploaded)
		}
		return nil, err
	}

	publish(ctx, s.feed, model.NewChangeEvent(model.TableEvents, model.ChangeInsert, created.ID, created.ID))
	return created, nil
}

func (s *EventServiceImpl) Update(ctx context.Context, organizerID, eventID uuid.UUID, input model.EventInput, image io.Reader) (*model.Event, error) {
	existing, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !existing.IsOwnedBy(organizerID) {
		return nil, apperrors.ErrForbidden
	}

	if input.ImageURL == "" && image == nil {
		input.ImageURL = existing.ImageURL
	}
	if err := input.Validate(s.clock.today(), image != nil); err != nil {
		return nil, err
	}

	event := input.ToEvent(organizerID)

	uploaded := ""
	if image != nil {
		url, err := s.storage.Upload(ctx, storage.FolderEventImages, image)
		if err != nil {
			return nil, err
		}
		uploaded = url
		event.ImageURL = url
	}

	// 地址沒變就沿用原本的座標
	if !event.IsOnline && sameAddress(existing, event) {
		event.Latitude, event.Longitude = existing.Latitude, existing.Longitude
	} else {
		s.locate(ctx, event)
	}

	updated, err := s.repo.Update(ctx, eventID, event.UpdateParams())
	if err != nil {
		if uploaded != "" {
			s.removeImage(uploaded)
		}
		return nil, err
	}

	if existing.ImageURL != "" && existing.ImageURL != updated.ImageURL {
		s.removeImage(existing.ImageURL)
	}

	publish(ctx, s.feed, model.NewChangeEvent(model.TableEvents, model.ChangeUpdate, eventID, eventID))
	return updated, nil
}

func (s *EventServiceImpl) Delete(ctx context.Context, organizerID, eventID uuid.UUID) error {
	existing, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return err
	}
	if !existing.IsOwnedBy(organizerID) {
		return apperrors.ErrForbidden
	}

	if err := s.repo.Delete(ctx, eventID, organizerID); err != nil {
		return err
	}

	if existing.ImageURL != "" {
		s.removeImage(existing.ImageURL)
	}

	publish(ctx, s.feed, model.NewChangeEvent(model.TableEvents, model.ChangeDelete, eventID, eventID))
	return nil
}

// TrackView 瀏覽數只寫資料庫不發通知，快取中的數字由 TTL 與定期更新補上
func (s *EventServiceImpl) TrackView(ctx context.Context, eventID uuid.UUID, viewerID *uuid.UUID) (int, error) {
	return s.repo.IncrementView(ctx, eventID, viewerID)
}

func (s *EventServiceImpl) ListOrganized(ctx context.Context, organizerID uuid.UUID) ([]*model.Event, error) {
	return retryOnce(ctx, "list_organized_events", s.retryBackoff, func(ctx context.Context) ([]*model.Event, error) {
		return s.repo.ListByOrganizer(ctx, organizerID)
	})
}

func (s *EventServiceImpl) ListRegistered(ctx context.Context, userID uuid.UUID) ([]*model.Event, error) {
	ids, err := retryOnce(ctx, "list_registered_event_ids", s.retryBackoff, func(ctx context.Context) ([]uuid.UUID, error) {
		return s.registrationRepo.ListEventIDsByUser(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.Event{}, nil
	}
	return s.repo.ListByIDs(ctx, ids)
}

func (s *EventServiceImpl) Analytics(ctx context.Context, organizerID uuid.UUID) (*model.Analytics, error) {
	return retryOnce(ctx, "event_analytics", s.retryBackoff, func(ctx context.Context) (*model.Analytics, error) {
		return s.repo.Analytics(ctx, organizerID, s.clock.today())
	})
}

func (s *EventServiceImpl) RefreshPublic(ctx context.Context) error {
	_, err, _ := s.group.Do(cache.PublicEventsKey, func() (any, error) {
		return s.fetchPublic(ctx)
	})
	return err
}

// locate 實體活動以地址查座標；查不到不影響建立
func (s *EventServiceImpl) locate(ctx context.Context, event *model.Event) {
	if s.geocoder == nil || event.IsOnline {
		return
	}
	address := joinAddress(event.Address, event.City, event.Country)
	if address == "" {
		return
	}

	loc, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		logger.WithComponent("service").Info("Geocoding skipped",
			zap.String("address", address),
			zap.Error(err),
		)
		return
	}
	event.Latitude = &loc.Latitude
	event.Longitude = &loc.Longitude
}

// removeImage 清除儲存空間中的圖片，失敗只記錄
func (s *EventServiceImpl) removeImage(url string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.storage.Delete(ctx, url); err != nil {
		logger.WithComponent("service").Warn("Failed to delete image",
			zap.String("url", url),
			zap.Error(err),
		)
	}
}

func sameAddress(a, b *model.Event) bool {
	return a.Address == b.Address && a.City == b.City && a.Country == b.Country
}

func joinAddress(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}
