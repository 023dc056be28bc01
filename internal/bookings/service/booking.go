package service

import (
	"context"
	"errors"
	"sync"
	"time"

	bookingserrors "gymstore/internal/bookings/errors"
	"gymstore/internal/bookings/repository"
	"gymstore/internal/bookings/validator"
	"gymstore/pkg/config"
	apperrors "gymstore/pkg/errors"
	"gymstore/pkg/events"
	"gymstore/pkg/mailer"
	"gymstore/pkg/metrics"
	"gymstore/pkg/model"
	"gymstore/pkg/sanitizer"
	"gymstore/pkg/validation"
)

const (
	MsgSlotTaken        = "This time slot is already booked"
	MsgAlreadyCancelled = "Booking is already cancelled"
)

type BookingService interface {
	CheckAndCreate(ctx context.Context, userID string, req *model.BookingRequest) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	List(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error)
	Members(ctx context.Context, gym string) ([]*model.BranchMember, error)
	BookedSlots(ctx context.Context, gym, date string) (map[string][]string, error)
	Cancel(ctx context.Context, id, gymScope string) (*CancelResult, error)
}

// CancelResult reports the cancelled booking plus the advisory outcome of
// the customer notification.
type CancelResult struct {
	Booking           *model.Booking `json:"booking"`
	NotificationSent  bool           `json:"notification_sent"`
	NotificationError string         `json:"notification_error,omitempty"`
}

type bookingService struct {
	repo      repository.BookingRepository
	validator *validator.BookingValidator
	publisher events.Publisher
	notifier  *mailer.Notifier
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	notifier *mailer.Notifier,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		validator: validator,
		publisher: publisher,
		notifier:  notifier,
		cfg:       cfg,
	}
}

func (s *bookingService) CheckAndCreate(ctx context.Context, userID string, req *model.BookingRequest) (*model.Booking, error) {
	log := s.cfg.Log.ForContext(ctx)
	s.sanitize(req)

	if err := s.validator.ValidateRequest(req); err != nil {
		log.Warn("Booking validation failed", "gym", req.Gym, "facility", req.Facility, "error", err)
		metrics.IncBookingAttempt("invalid")
		return nil, validation.AsAppError("Missing required fields", err)
	}

	date, err := NormalizeDate(req.Date)
	if err != nil {
		metrics.IncBookingAttempt("invalid")
		return nil, apperrors.InvalidInput("Invalid date format")
	}

	booking := &model.Booking{
		UserID:   userID,
		Gym:      req.Gym,
		Facility: req.Facility,
		Date:     date,
		TimeSlot: req.TimeSlot,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    sanitizer.NormalizePhone(req.Phone, s.cfg.DefaultPhoneRegion),
		Status:   model.BookingStatusConfirmed,
	}
	if err := s.validator.Validate(booking); err != nil {
		log.Warn("Booking validation failed", "gym", req.Gym, "facility", req.Facility, "error", err)
		metrics.IncBookingAttempt("invalid")
		return nil, validation.AsAppError("Invalid booking input", err)
	}

	start, end := DayWindow(date)
	existing, err := s.repo.FindConfirmedInSlot(ctx, booking.Gym, booking.Facility, booking.TimeSlot, start, end)
	if err != nil {
		log.Error("Failed to check slot availability", "gym", booking.Gym, "facility", booking.Facility, "date", date, "error", err)
		return nil, apperrors.Internal("Failed to check slot availability", err)
	}
	if existing != nil {
		metrics.IncBookingAttempt("conflict")
		return nil, slotConflict(existing)
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		if errors.Is(err, bookingserrors.ErrSlotTaken) {
			metrics.IncBookingAttempt("conflict")
			return nil, s.conflictFromWinner(ctx, booking, start, end)
		}
		log.Error("Failed to create booking", "gym", booking.Gym, "facility", booking.Facility, "error", err)
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	metrics.IncBookingAttempt("created")
	s.publish(ctx, events.BookingCreated, booking)
	log.Info("Booking created successfully",
		"id", booking.ID,
		"gym", booking.Gym,
		"facility", booking.Facility,
		"date", booking.Date,
		"time_slot", booking.TimeSlot,
	)
	return booking, nil
}

// conflictFromWinner names the booking that won a concurrent insert race.
func (s *bookingService) conflictFromWinner(ctx context.Context, b *model.Booking, start, end time.Time) error {
	winner, err := s.repo.FindConfirmedInSlot(ctx, b.Gym, b.Facility, b.TimeSlot, start, end)
	if err != nil || winner == nil {
		s.cfg.Log.ForContext(ctx).Warn("Slot taken by a concurrent booking that could not be re-read",
			"gym", b.Gym, "facility", b.Facility, "time_slot", b.TimeSlot, "error", err)
		return apperrors.Conflict(MsgSlotTaken)
	}
	return slotConflict(winner)
}

func slotConflict(existing *model.Booking) error {
	return apperrors.Conflict(MsgSlotTaken).WithDetail("existing_booking", map[string]any{
		"id":        existing.ID,
		"date":      existing.Date,
		"time_slot": existing.TimeSlot,
	})
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateLookupError(ctx, id, err)
	}
	return booking, nil
}

func (s *bookingService) List(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, filter)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "user_id", filter.UserID, "gym", filter.Gym, "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, filter, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "user_id", filter.UserID, "gym", filter.Gym, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	if bookings == nil {
		bookings = []*model.Booking{}
	}

	return bookings, count, nil
}

func (s *bookingService) Members(ctx context.Context, gym string) ([]*model.BranchMember, error) {
	if gym == "" {
		return nil, apperrors.InvalidInput("Gym not found in token")
	}

	members, err := s.repo.AggregateMembers(ctx, gym)
	if err != nil {
		s.cfg.Log.ForContext(ctx).Error("Failed to aggregate branch members", "gym", gym, "error", err)
		return nil, apperrors.Internal("Failed to retrieve members", err)
	}
	if members == nil {
		members = []*model.BranchMember{}
	}
	return members, nil
}

func (s *bookingService) BookedSlots(ctx context.Context, gym, date string) (map[string][]string, error) {
	gym = sanitizer.NormalizeIdentifier(gym)
	if gym == "" || date == "" {
		return nil, apperrors.InvalidInput("Gym and date are required")
	}

	canonical, err := NormalizeDate(date)
	if err != nil {
		return nil, apperrors.InvalidInput("Invalid date format")
	}

	start, end := DayWindow(canonical)
	bookings, err := s.repo.FindConfirmedByGymAndDay(ctx, gym, start, end)
	if err != nil {
		s.cfg.Log.ForContext(ctx).Error("Failed to fetch booked slots", "gym", gym, "date", canonical, "error", err)
		return nil, apperrors.Internal("Failed to fetch booked slots", err)
	}

	slots := make(map[string][]string)
	for _, b := range bookings {
		slots[b.Facility] = append(slots[b.Facility], b.TimeSlot)
	}
	return slots, nil
}

// Cancel moves a confirmed booking to cancelled. A non-empty gymScope limits
// the caller to bookings of that gym.
func (s *bookingService) Cancel(ctx context.Context, id, gymScope string) (*CancelResult, error) {
	log := s.cfg.Log.ForContext(ctx)

	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if gymScope != "" && booking.Gym != gymScope {
		log.Warn("Rejected cancellation outside branch scope", "id", id, "gym", booking.Gym, "scope", gymScope)
		return nil, apperrors.Forbidden("Not authorized to cancel this booking")
	}
	if booking.Status == model.BookingStatusCancelled {
		return nil, apperrors.Conflict(MsgAlreadyCancelled)
	}

	cancelled, err := s.repo.MarkCancelled(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrAlreadyCancelled) {
			return nil, apperrors.Conflict(MsgAlreadyCancelled)
		}
		return nil, s.translateLookupError(ctx, id, err)
	}

	metrics.IncBookingCancelled()
	s.publish(ctx, events.BookingCancelled, cancelled)
	log.Info("Booking cancelled", "id", id, "gym", cancelled.Gym)

	result := &CancelResult{Booking: cancelled}
	subject, body, err := mailer.BookingCancelled(mailer.BookingCancelledData{
		Name:     cancelled.Name,
		Gym:      cancelled.Gym,
		Facility: cancelled.Facility,
		Date:     cancelled.Date,
		TimeSlot: cancelled.TimeSlot,
	})
	if err != nil {
		log.Error("Failed to render cancellation email", "id", id, "error", err)
		result.NotificationError = err.Error()
		return result, nil
	}

	sent := s.notifier.Notify(ctx, cancelled.Email, subject, body)
	metrics.IncNotification("booking_cancelled", errorOf(sent))
	result.NotificationSent = sent.Sent
	result.NotificationError = sent.Error
	return result, nil
}

func (s *bookingService) translateLookupError(ctx context.Context, id string, err error) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid booking ID format")
	default:
		s.cfg.Log.ForContext(ctx).Error("Failed to retrieve booking", "id", id, "error", err)
		return apperrors.Internal("Failed to retrieve booking", err)
	}
}

func (s *bookingService) sanitize(req *model.BookingRequest) {
	req.Gym = sanitizer.NormalizeIdentifier(req.Gym)
	req.Facility = sanitizer.NormalizeIdentifier(req.Facility)
	req.TimeSlot = sanitizer.NormalizeIdentifier(req.TimeSlot)
	req.Name = sanitizer.NormalizeName(req.Name)
	req.Email = sanitizer.NormalizeEmail(req.Email)
	req.Phone = sanitizer.TrimAndNormalize(req.Phone)
}

func (s *bookingService) publish(ctx context.Context, eventType string, b *model.Booking) {
	s.publisher.Publish(ctx, events.Event{
		Type: eventType,
		Key:  b.ID,
		Payload: events.BookingPayload{
			BookingID: b.ID,
			Gym:       b.Gym,
			Facility:  b.Facility,
			Date:      b.Date,
			TimeSlot:  b.TimeSlot,
			Email:     b.Email,
			Status:    b.Status,
		},
	})
}

func errorOf(r mailer.Result) error {
	if r.Sent {
		return nil
	}
	return errors.New(r.Error)
}
