package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/PJH6029/waffle-assignment-2/internal/model"
	"github.com/PJH6029/waffle-assignment-2/internal/repository"
)

// SeminarHandler serves seminar creation, configuration and browsing.
// Creation and update are instructor-only (enforced by role
// middleware on the routes); the handler additionally checks the
// requester's enrollment state, which the JWT cannot carry.
type SeminarHandler struct {
	Seminars    *repository.SeminarRepo
	Enrollments *repository.EnrollmentRepo
}

func NewSeminarHandler(s *repository.SeminarRepo, e *repository.EnrollmentRepo) *SeminarHandler {
	if s == nil || e == nil {
		panic("nil repository passed to NewSeminarHandler")
	}
	return &SeminarHandler{Seminars: s, Enrollments: e}
}

type createSeminarReq struct {
	Name     string  `json:"name"`
	Capacity *uint32 `json:"capacity"`
	Time     string  `json:"time"` // "HH:MM"
	Online   *bool   `json:"online"`
}

// Create handles POST /v1/seminars. The requester becomes the
// seminar's instructor; the seminar row and the instructor enrollment
// are committed in one transaction so neither ever exists without the
// other.
func (h *SeminarHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createSeminarReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Capacity == nil || *req.Capacity == 0 || req.Time == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, capacity and time are required; capacity must be positive"})
	}
	clockTime, err := parseClock(req.Time)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "time should be in HH:MM format"})
	}
	online := true
	if req.Online != nil {
		online = *req.Online
	}

	ctx := c.Request().Context()
	seminar := &model.Seminar{
		Name:     req.Name,
		Capacity: *req.Capacity,
		Time:     clockTime,
		Online:   online,
	}
	if err := h.Seminars.Create(ctx, h.Enrollments, userID, seminar); err != nil {
		if errors.Is(err, repository.ErrAlreadyInstructing) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "You're in charge of another seminar"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create seminar"})
	}

	detail, err := h.Seminars.Detail(ctx, seminar.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seminar"})
	}
	return c.JSON(http.StatusCreated, detail)
}

type updateSeminarReq struct {
	Name     *string `json:"name"`
	Capacity *uint32 `json:"capacity"`
	Time     *string `json:"time"`
	Online   *bool   `json:"online"`
}

// Update handles PUT /v1/seminars/:id. Only the seminar's own
// instructor may update it, and capacity can never be pushed below
// the current number of active participants.
func (h *SeminarHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	seminarID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || seminarID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seminar id"})
	}
	ctx := c.Request().Context()

	instructs, err := h.Enrollments.IsInstructorOf(ctx, userID, seminarID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !instructs {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "You're not in charge of this seminar"})
	}

	var req updateSeminarReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	patch := repository.SeminarPatch{Capacity: req.Capacity, Online: req.Online}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name must not be empty"})
		}
		patch.Name = &name
	}
	if req.Capacity != nil && *req.Capacity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be positive"})
	}
	if req.Time != nil {
		clockTime, err := parseClock(*req.Time)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "time should be in HH:MM format"})
		}
		patch.Time = &clockTime
	}

	if err := h.Seminars.Update(ctx, h.Enrollments, seminarID, patch); err != nil {
		switch {
		case errors.Is(err, repository.ErrSeminarNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Seminar with that id does not exist"})
		case errors.Is(err, repository.ErrCapacityBelowCount):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Capacity should be bigger than the number of participants"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update seminar"})
	}

	detail, err := h.Seminars.Detail(ctx, seminarID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seminar"})
	}
	return c.JSON(http.StatusOK, detail)
}

// Get handles GET /v1/seminars/:id and returns the seminar with its
// instructor and participant lists.
func (h *SeminarHandler) Get(c echo.Context) error {
	seminarID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || seminarID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seminar id"})
	}
	detail, err := h.Seminars.Detail(c.Request().Context(), seminarID)
	if err != nil {
		if errors.Is(err, repository.ErrSeminarNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Seminar with that id does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seminar"})
	}
	return c.JSON(http.StatusOK, detail)
}

// List handles GET /v1/seminars?name=&order=. The name filter is a
// case-insensitive substring match; order=earliest sorts oldest
// first, anything else newest first.
func (h *SeminarHandler) List(c echo.Context) error {
	name := c.QueryParam("name")
	order := c.QueryParam("order")
	details, err := h.Seminars.Search(c.Request().Context(), name, order)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seminars"})
	}
	return c.JSON(http.StatusOK, details)
}
