package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"academy/internal/errors"
	"academy/internal/service"
)

// CourseHandler serves course administration and reading.
type CourseHandler struct {
	svc service.CourseAccessService
}

// NewCourseHandler creates a new course handler.
func NewCourseHandler(svc service.CourseAccessService) *CourseHandler {
	return &CourseHandler{svc: svc}
}

// CreateCourseRequest creates a course title.
type CreateCourseRequest struct {
	Name        string `json:"name" validate:"required,max=150"`
	Description string `json:"description" validate:"max=1024"`
}

// RenameCourseRequest renames a course title.
type RenameCourseRequest struct {
	Name string `json:"name" validate:"required,max=150"`
}

// AddPageRequest appends a page to a course.
type AddPageRequest struct {
	Heading string `json:"heading" validate:"required,max=255"`
	Content string `json:"content"`
}

// IssueCodeRequest issues an activation code for a user.
type IssueCodeRequest struct {
	UserID uint `json:"user_id" validate:"required"`
}

// ActivateRequest redeems an activation code.
type ActivateRequest struct {
	Code string `json:"code" validate:"required,len=15,alphanum"`
}

// ProgressResponse reports the page a reader is on.
type ProgressResponse struct {
	Page int `json:"page"`
}

// CreateCourse godoc
// @Summary Create a course title and its owner role
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCourseRequest true "Course"
// @Success 201 {object} model.CourseTitle
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/courses [post]
func (h *CourseHandler) CreateCourse(c echo.Context) error {
	var req CreateCourseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	title, err := h.svc.CreateCourseTitle(c.Request().Context(), req.Name, req.Description)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, title)
}

// RenameCourse godoc
// @Summary Rename a course title and its owner role
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course title ID"
// @Param request body RenameCourseRequest true "New name"
// @Success 200 {object} model.CourseTitle
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/courses/{id} [put]
func (h *CourseHandler) RenameCourse(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req RenameCourseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	title, err := h.svc.RenameCourseTitle(c.Request().Context(), id, req.Name)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, title)
}

// DeleteCourse godoc
// @Summary Delete a course title, its pages, codes and owner role
// @Tags admin
// @Security BearerAuth
// @Param id path int true "Course title ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteCourseTitle(c.Request().Context(), id); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AddPage godoc
// @Summary Append a page to a course
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course title ID"
// @Param request body AddPageRequest true "Page"
// @Success 201 {object} model.Course
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/courses/{id}/pages [post]
func (h *CourseHandler) AddPage(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req AddPageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	page, err := h.svc.AddPage(c.Request().Context(), id, req.Heading, req.Content)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, page)
}

// IssueCode godoc
// @Summary Issue an activation code for a user
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course title ID"
// @Param request body IssueCodeRequest true "Recipient"
// @Success 201 {object} model.ActivationCode
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/courses/{id}/codes [post]
func (h *CourseHandler) IssueCode(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req IssueCodeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	code, err := h.svc.IssueActivationCode(c.Request().Context(), req.UserID, id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, code)
}

// Activate godoc
// @Summary Redeem an activation code
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ActivateRequest true "Code"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /courses/activate [post]
func (h *CourseHandler) Activate(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	var req ActivateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	// a code may only be redeemed by the user it was issued to
	ok, err := h.svc.ActivateCodeFor(c.Request().Context(), claims.UserID, req.Code)
	if err != nil {
		return fail(err)
	}
	if !ok {
		return badRequest("activation code is invalid or already used", "ACTIVATION_CODE_INVALID")
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "course activated"})
}

// ViewPage godoc
// @Summary Read a course page
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param title path string true "Course title name"
// @Param page path int true "Page number"
// @Success 200 {object} model.Course
// @Failure 403 {object} errors.ErrorResponse
// @Router /courses/{title}/pages/{page} [get]
func (h *CourseHandler) ViewPage(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	page, err := parsePage(c)
	if err != nil {
		return err
	}

	course, err := h.svc.ViewPage(c.Request().Context(), claims.UserID, c.Param("title"), page)
	if err != nil {
		return fail(err)
	}
	if course == nil {
		return echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
			Error: "page is not available",
			Code:  "PAGE_LOCKED",
		})
	}
	return c.JSON(http.StatusOK, course)
}

// Advance godoc
// @Summary Finish a page and unlock the next one
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param title path string true "Course title name"
// @Param page path int true "Page being finished"
// @Success 200 {object} ProgressResponse
// @Router /courses/{title}/pages/{page}/advance [post]
func (h *CourseHandler) Advance(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	page, err := parsePage(c)
	if err != nil {
		return err
	}

	current, err := h.svc.Advance(c.Request().Context(), claims.UserID, c.Param("title"), page)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, ProgressResponse{Page: current})
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, badRequest("invalid id", "INVALID_ID")
	}
	return uint(id), nil
}

func parsePage(c echo.Context) (int, error) {
	page, err := strconv.Atoi(c.Param("page"))
	if err != nil || page < 1 {
		return 0, badRequest("invalid page", "INVALID_PAGE")
	}
	return page, nil
}
