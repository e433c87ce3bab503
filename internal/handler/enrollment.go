package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/PJH6029/waffle-assignment-2/internal/model"
	"github.com/PJH6029/waffle-assignment-2/internal/queue"
	"github.com/PJH6029/waffle-assignment-2/internal/repository"
	queue_publisher "github.com/PJH6029/waffle-assignment-2/internal/service"
)

// EnrollmentHandler serves joining and dropping seminars. The actual
// state transitions live in the repository layer; the handler
// validates the request and maps the repository's sentinel errors to
// HTTP responses.
type EnrollmentHandler struct {
	Users       *repository.UserRepo
	Seminars    *repository.SeminarRepo
	Enrollments *repository.EnrollmentRepo
}

func NewEnrollmentHandler(u *repository.UserRepo, s *repository.SeminarRepo, e *repository.EnrollmentRepo) *EnrollmentHandler {
	if u == nil || s == nil || e == nil {
		panic("nil repository passed to NewEnrollmentHandler")
	}
	return &EnrollmentHandler{Users: u, Seminars: s, Enrollments: e}
}

type enrollReq struct {
	Role string `json:"role"`
}

// Join handles POST /v1/seminars/:id/user. The duplicate check, the
// profile gates and the capacity count all run while the seminar row
// is locked, so two concurrent joins on the last seat cannot both
// pass the count.
func (h *EnrollmentHandler) Join(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	seminarID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || seminarID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seminar id"})
	}
	var req enrollReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if !model.ValidRole(req.Role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Role should be either participant or instructor"})
	}
	ctx := c.Request().Context()

	seminar, err := h.Enrollments.Join(ctx, h.Users, h.Seminars, userID, seminarID, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSeminarNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Seminar with that id does not exist"})
		case errors.Is(err, repository.ErrAlreadyJoined):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "You've joined this seminar"})
		case errors.Is(err, repository.ErrNotParticipant):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "You're not a participant"})
		case errors.Is(err, repository.ErrNotAccepted):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "You're not accepted"})
		case errors.Is(err, repository.ErrSeminarFull):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "This seminar is already full"})
		case errors.Is(err, repository.ErrNotInstructor):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "You're not a instructor"})
		case errors.Is(err, repository.ErrAlreadyInstructing):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "You're in charge of another seminar"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to join seminar"})
	}

	h.publish(ctx, "joined", userID, seminar, req.Role)

	detail, err := h.Seminars.Detail(ctx, seminarID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seminar"})
	}
	return c.JSON(http.StatusCreated, detail)
}

// Drop handles DELETE /v1/seminars/:id/user. The body must name a
// valid role even though only participants can drop. Instructors
// cannot leave their own seminar. Dropping is idempotent: a user with
// no active enrollment gets the same 200 as one who just dropped.
func (h *EnrollmentHandler) Drop(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	seminarID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || seminarID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seminar id"})
	}
	var req enrollReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if !model.ValidRole(req.Role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Role should be either participant or instructor"})
	}
	if req.Role == model.RoleInstructor {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Instructor cannot drop the seminar"})
	}
	ctx := c.Request().Context()

	seminar, err := h.Seminars.GetByID(ctx, seminarID)
	if err != nil {
		if errors.Is(err, repository.ErrSeminarNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Seminar with that id does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	// The seminar's own instructor cannot drop regardless of the body.
	instructs, err := h.Enrollments.IsInstructorOf(ctx, userID, seminarID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if instructs {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Instructor cannot drop the seminar"})
	}
	dropped, err := h.Enrollments.Drop(ctx, userID, seminarID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to drop seminar"})
	}
	// Only an actual state change is worth announcing.
	if dropped {
		h.publish(ctx, "dropped", userID, seminar, model.RoleParticipant)
	}

	detail, err := h.Seminars.Detail(ctx, seminarID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seminar"})
	}
	return c.JSON(http.StatusOK, detail)
}

// publish emits an enrollment event. Failures are logged inside the
// publisher and deliberately not surfaced to the client.
func (h *EnrollmentHandler) publish(ctx context.Context, action string, userID uint64, seminar model.Seminar, role string) {
	username := ""
	if u, err := h.Users.GetByID(ctx, userID); err == nil {
		username = u.Username
	}
	_ = queue_publisher.PublishEnrollmentChanged(ctx, queue.EnrollmentChangedEvent{
		Action:      action,
		UserID:      userID,
		Username:    username,
		SeminarID:   seminar.ID,
		SeminarName: seminar.Name,
		Role:        role,
		OccurredAt:  time.Now().UTC().Format(time.RFC3339),
	})
}
