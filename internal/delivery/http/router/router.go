// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"medash/internal/delivery/http/middleware"
	"medash/internal/delivery/http/router/handler"
	"medash/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler          *handler.AuthHandler
	AccessRequestHandler *handler.AccessRequestHandler
	MEHandler            *handler.MEHandler
	FacilitatorHandler   *handler.FacilitatorHandler
	DonorHandler         *handler.DonorHandler
	Guard                *middleware.GuardMiddleware
	RequestID            *middleware.RequestIDMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	auth           *handler.AuthHandler
	accessRequests *handler.AccessRequestHandler
	me             *handler.MEHandler
	facilitator    *handler.FacilitatorHandler
	donor          *handler.DonorHandler
	guard          *middleware.GuardMiddleware
	requestID      *middleware.RequestIDMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		auth:           params.AuthHandler,
		accessRequests: params.AccessRequestHandler,
		me:             params.MEHandler,
		facilitator:    params.FacilitatorHandler,
		donor:          params.DonorHandler,
		guard:          params.Guard,
		requestID:      params.RequestID,
	}
}

// RegisterRoutes sets up all the API routes for the application. Each
// role-scoped group is gated by the guard with its allowed role set; the
// guard re-evaluates the session on every request.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.Use(r.requestID.Process)

	e.GET("/health", handler.HealthCheck)

	// Auth routes reachable without a session
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/login", r.auth.Login)
		authGroup.POST("/register", r.auth.Signup)
		authGroup.GET("/verify", r.auth.VerifyEmail)
		authGroup.POST("/resend-verification", r.auth.ResendVerification)
		authGroup.POST("/forgot-password", r.auth.ForgotPassword)
		authGroup.POST("/reset-password", r.auth.ResetPassword)
		authGroup.POST("/logout", r.auth.Logout)
	}

	// Any authenticated session, including unassigned accounts
	userGroup := e.Group("/users", r.guard.RequireSession)
	{
		userGroup.GET("/profile", r.auth.Me)
		userGroup.POST("/request/role", r.auth.RequestAccess)
	}

	// Access-request review queue
	reviewGroup := e.Group("/access-requests",
		r.guard.RequireRole(entity.RoleMEOfficer, entity.RoleDonor, entity.RoleAdmin))
	{
		reviewGroup.GET("", r.accessRequests.List)
		reviewGroup.GET("/pending", r.accessRequests.Pending)
		reviewGroup.POST("/:id/approve", r.accessRequests.Approve)
		reviewGroup.POST("/:id/reject", r.accessRequests.Reject)
	}

	// M&E officer surface
	meGroup := e.Group("/me", r.guard.RequireRole(entity.RoleMEOfficer, entity.RoleAdmin))
	{
		meGroup.GET("/analytics/overview", r.me.OverviewAnalytics)
		meGroup.GET("/analytics/retention-trend", r.me.RetentionTrend)
		meGroup.GET("/analytics/attendance-summary", r.me.AttendanceSummary)
		meGroup.GET("/analytics/top-performers", r.me.TopPerformers)

		meGroup.GET("/cohort-batches/list", r.me.CohortBatches)
		meGroup.POST("/cohort-batches", r.me.CreateCohortBatch)
		meGroup.PATCH("/cohort-batches/:id/status", r.me.UpdateCohortBatchStatus)

		meGroup.GET("/cohorts/list", r.me.Cohorts)
		meGroup.POST("/cohorts", r.me.CreateCohort)
		meGroup.PATCH("/cohorts/:id/status", r.me.UpdateCohortStatus)

		meGroup.GET("/courses", r.me.Courses)
		meGroup.POST("/courses", r.me.CreateCourse)
		meGroup.PUT("/courses/:id", r.me.UpdateCourse)
		meGroup.DELETE("/courses/:id", r.me.DeleteCourse)
		meGroup.PATCH("/courses/:id/toggle-status", r.me.ToggleCourseStatus)

		meGroup.GET("/facilitators", r.me.Facilitators)
		meGroup.PUT("/facilitators/:id/cohort-batches", r.me.SetFacilitatorCohortBatches)
		meGroup.POST("/facilitators/:id/assign-course", r.me.AssignCourse)
		meGroup.DELETE("/facilitators/:id/courses/:courseId", r.me.RemoveCourse)

		meGroup.GET("/participants", r.me.Participants)
		meGroup.GET("/participants/stats", r.me.ParticipantStats)
		meGroup.POST("/participants", r.me.CreateParticipant)
	}

	// Facilitator surface
	facilitatorGroup := e.Group("/facilitator", r.guard.RequireRole(entity.RoleFacilitator, entity.RoleAdmin))
	{
		facilitatorGroup.GET("/my-cohorts", r.facilitator.MyCohorts)
		facilitatorGroup.GET("/profile", r.facilitator.Profile)
		facilitatorGroup.GET("/attendance/participants", r.facilitator.AttendanceSheet)
		facilitatorGroup.POST("/attendance/mark", r.facilitator.MarkAttendance)
	}

	// Donor surface
	donorGroup := e.Group("/organizations", r.guard.RequireRole(entity.RoleDonor, entity.RoleAdmin))
	{
		donorGroup.GET("/partners", r.donor.Partners)
		donorGroup.GET("/partners/statistics", r.donor.Statistics)
	}
}
