package echoapi

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/trezcool/homeschool/core"
	"github.com/trezcool/homeschool/core/tracker"
)

var nowFunc = time.Now // mockable

type trackerApi struct {
	conf     *core.Config
	svc      *tracker.Service
	mailSvc  core.EmailService
	validate *validator.Validate
}

func registerTrackerAPI(
	g *echo.Group,
	conf *core.Config,
	svc *tracker.Service,
	mailSvc core.EmailService,
	validate *validator.Validate,
) {
	api := trackerApi{
		conf:     conf,
		svc:      svc,
		mailSvc:  mailSvc,
		validate: validate,
	}

	g.GET("/dashboard", api.dashboard)

	sg := g.Group("/subjects")
	sg.GET("", api.querySubjects)
	sg.GET("/:id", api.retrieveSubject)
	sg.POST("/:id/activities", api.gradeActivity)

	ag := g.Group("/assignments")
	ag.GET("", api.queryAssignments)
	ag.POST("", api.createAssignment)
	ag.GET("/:id", api.retrieveAssignment)
	ag.PUT("/:id", api.updateAssignment)
	ag.DELETE("/:id", api.destroyAssignment)

	g.GET("/attendance", api.queryAttendance)
	g.PUT("/attendance/:date", api.markAttendance)

	jg := g.Group("/journal")
	jg.GET("", api.queryJournal)
	jg.POST("", api.createJournalEntry)
	jg.GET("/:id", api.retrieveJournalEntry)
	jg.PUT("/:id", api.updateJournalEntry)
	jg.DELETE("/:id", api.destroyJournalEntry)

	g.GET("/student", api.retrieveStudent)
	g.PUT("/student", api.updateStudent)

	rg := g.Group("/reports")
	rg.GET("/progress", api.progressReport)
	rg.GET("/progress.html", api.printProgressReport)
	rg.POST("/email", api.emailProgressReport)

	g.GET("/planner/week", api.weekPlanner)

	bg := g.Group("/backup")
	bg.GET("", api.downloadBackup)
	bg.POST("", api.importBackup)
	bg.GET("/stats", api.backupStats)

	g.GET("/sync", api.syncState)
	g.POST("/sync/refresh", api.refreshSync)

	g.POST("/recovery/clear", api.clearData)
}
