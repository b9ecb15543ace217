package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/balmandal/community-api/internal/auth"
	"github.com/balmandal/community-api/internal/handlers"
	authmw "github.com/balmandal/community-api/internal/middleware/auth"
)

type Deps struct {
	Tokens *auth.TokenService

	Auth          *handlers.AuthHandler
	Users         *handlers.UserHandler
	Events        *handlers.EventHandler
	Posts         *handlers.PostHandler
	Notifications *handlers.NotificationHandler
	Mentors       *handlers.MentorHandler
	Achievements  *handlers.AchievementHandler
	Attendance    *handlers.AttendanceHandler
	Logs          *handlers.LogHandler
	Search        *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.Auth.Register)
	v1.POST("/login", d.Auth.Login)

	v1.GET("/events", d.Events.List)
	v1.GET("/events/:id", d.Events.Get)
	v1.GET("/posts", d.Posts.List)
	v1.GET("/posts/:id", d.Posts.Get)
	v1.GET("/mentors", d.Mentors.List)
	v1.GET("/achievements", d.Achievements.List)
	v1.GET("/users/community", d.Users.Community)
	if d.Search != nil {
		v1.GET("/search", d.Search.Posts)
	}

	authed := v1.Group("", authmw.RequireAuth(d.Tokens))

	authed.GET("/me", d.Auth.Me)
	authed.GET("/users/profile", d.Users.GetProfile)
	authed.PUT("/users/profile", d.Users.UpdateProfile)

	authed.POST("/events/:id/join", d.Events.Join)
	authed.DELETE("/events/:id/join", d.Events.Leave)

	authed.POST("/posts", d.Posts.Create)
	authed.PUT("/posts/:id", d.Posts.Update)
	authed.DELETE("/posts/:id", d.Posts.Delete)
	authed.POST("/posts/:id/like", d.Posts.Like)
	authed.POST("/posts/:id/comments", d.Posts.Comment)
	authed.DELETE("/posts/:id/comments/:commentId", d.Posts.DeleteComment)

	authed.GET("/notifications", d.Notifications.List)
	authed.GET("/notifications/unread-count", d.Notifications.UnreadCount)
	authed.PUT("/notifications/:id/read", d.Notifications.MarkRead)
	authed.PUT("/notifications/read-all", d.Notifications.MarkAllRead)

	authed.GET("/attendance/me", d.Attendance.Mine)

	volunteer := authed.Group("", authmw.Volunteer())

	volunteer.POST("/attendance", d.Attendance.Mark)
	volunteer.GET("/attendance", d.Attendance.ByDay)

	moderator := authed.Group("", authmw.Moderator())

	moderator.GET("/posts/all", d.Posts.ListAll)
	moderator.PUT("/posts/:id/approve", d.Posts.Approve)

	admin := authed.Group("", authmw.Admin())

	admin.GET("/users", d.Users.List)
	admin.POST("/users", d.Users.Create)
	admin.PUT("/users/:id", d.Users.Update)
	admin.PUT("/users/:id/role", d.Users.UpdateRole)
	admin.PUT("/users/:id/password", d.Users.ResetPassword)
	admin.DELETE("/users/:id", d.Users.Delete)

	admin.POST("/events", d.Events.Create)
	admin.PUT("/events/:id", d.Events.Update)
	admin.DELETE("/events/:id", d.Events.Delete)

	admin.GET("/notifications/all", d.Notifications.ListAll)
	admin.POST("/notifications", d.Notifications.Create)
	admin.PUT("/notifications/:id", d.Notifications.Update)
	admin.DELETE("/notifications/:id", d.Notifications.Delete)

	admin.POST("/mentors", d.Mentors.Create)
	admin.PUT("/mentors/:id", d.Mentors.Update)
	admin.DELETE("/mentors/:id", d.Mentors.Delete)

	admin.POST("/achievements", d.Achievements.Create)
	admin.PUT("/achievements/:id", d.Achievements.Update)
	admin.DELETE("/achievements/:id", d.Achievements.Delete)

	superadmin := authed.Group("", authmw.SuperAdmin())

	superadmin.GET("/logs", d.Logs.List)
}
