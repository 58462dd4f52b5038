// Command timetablectl is the administrative counterpart to cmd/api-gateway:
// a thin cobra CLI over the same repository/service layer the HTTP driver
// uses, for catalogue setup and one-off scheduling runs from a terminal,
// grounded on the russross-schedule example's cobra command tree.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dersplan/timetable-api/internal/domain"
	"github.com/dersplan/timetable-api/internal/importer"
	"github.com/dersplan/timetable-api/internal/repository"
	"github.com/dersplan/timetable-api/internal/service"
	"github.com/dersplan/timetable-api/internal/timegrid"
	"github.com/dersplan/timetable-api/pkg/config"
	"github.com/dersplan/timetable-api/pkg/database"
	"github.com/dersplan/timetable-api/pkg/logger"
	"github.com/dersplan/timetable-api/pkg/schema"
	"github.com/dersplan/timetable-api/pkg/storage"
)

// deps bundles the service-layer collaborators every subcommand needs,
// built once in root's PersistentPreRunE and torn down in
// PersistentPostRun.
type deps struct {
	cfg       *config.Config
	logger    *zap.Logger
	db        *sqlxCloser
	admin     *service.CatalogueAdminService
	generator *service.GenerationService
	importer  *service.ImportService
	exporter  *service.ExportService
}

// sqlxCloser narrows *sqlx.DB to the one method main needs at shutdown.
type sqlxCloser struct {
	Close func() error
}

var app deps

func main() {
	root := &cobra.Command{
		Use:   "timetablectl",
		Short: "Administer departments, rooms, instructors, and courses, and run scheduling passes",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "init-db" {
				return nil
			}
			return setupDeps()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.db != nil {
				_ = app.db.Close()
			}
		},
	}

	root.AddCommand(
		cmdInitDB(),
		cmdDepartment(),
		cmdRoom(),
		cmdInstructor(),
		cmdCourse(),
		cmdDefineShared(),
		cmdPinFixedTime(),
		cmdEditAvailability(),
		cmdBlackout(),
		cmdGenerate(),
		cmdExport(),
		cmdDeleteSchedule(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupDeps() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	catalogueRepo := repository.NewCatalogueRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	app = deps{
		cfg:    cfg,
		logger: logr,
		db:     &sqlxCloser{Close: db.Close},
		admin:  service.NewCatalogueAdminService(adminRepo, courseRepo, logr),
		generator: service.NewGenerationService(catalogueRepo, scheduleRepo, service.GenerationConfig{
			RectorWideCodes:                     cfg.Scheduler.RectorWideCodes,
			ForcedDistribution:                  cfg.Scheduler.ForcedDistribution,
			AvailabilityMissingDayUnconstrained: cfg.Scheduler.AvailabilityMissingDayUnconstrained(),
			Seed:                                cfg.Scheduler.Seed,
		}, logr),
		importer: service.NewImportService(importer.Config{SharedCoursePrefixes: cfg.Scheduler.SharedCoursePrefixes}, courseRepo, logr),
		exporter: service.NewExportService(catalogueRepo, scheduleRepo, logr),
	}
	return nil
}

func cmdInitDB() *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create the timetable schema if it does not already exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			db, err := database.NewPostgres(cfg.Database)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer db.Close() //nolint:errcheck
			if _, err := db.ExecContext(cmd.Context(), schema.DDL); err != nil {
				return fmt.Errorf("apply schema: %w", err)
			}
			fmt.Println("schema applied")
			return nil
		},
	}
}

func cmdDepartment() *cobra.Command {
	cmd := &cobra.Command{Use: "department", Short: "Manage departments"}

	var code, name string
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a department",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.admin.AddDepartment(cmd.Context(), code, name)
			if err != nil {
				return err
			}
			fmt.Println(id)
			return nil
		},
	}
	add.Flags().StringVar(&code, "code", "", "department code (required)")
	add.Flags().StringVar(&name, "name", "", "department name (required)")
	_ = add.MarkFlagRequired("code")
	_ = add.MarkFlagRequired("name")

	list := &cobra.Command{
		Use:   "list",
		Short: "List departments",
		RunE: func(cmd *cobra.Command, args []string) error {
			departments, err := app.admin.ListDepartments(cmd.Context())
			if err != nil {
				return err
			}
			for _, d := range departments {
				fmt.Printf("%s\t%s\t%s\n", d.ID, d.Code, d.Name)
			}
			return nil
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}

func cmdRoom() *cobra.Command {
	cmd := &cobra.Command{Use: "room", Short: "Manage rooms"}

	var name, kind string
	var capacity int
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a room",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.admin.AddRoom(cmd.Context(), name, capacity, domain.RoomKind(strings.ToUpper(kind)))
			if err != nil {
				return err
			}
			fmt.Println(id)
			return nil
		},
	}
	add.Flags().StringVar(&name, "name", "", "room name (required)")
	add.Flags().IntVar(&capacity, "capacity", 0, "room capacity (required)")
	add.Flags().StringVar(&kind, "kind", "NORMAL", "room kind: NORMAL or LAB")
	_ = add.MarkFlagRequired("name")
	_ = add.MarkFlagRequired("capacity")

	list := &cobra.Command{
		Use:   "list",
		Short: "List rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			rooms, err := app.admin.ListRooms(cmd.Context())
			if err != nil {
				return err
			}
			for _, r := range rooms {
				fmt.Printf("%s\t%s\t%d\t%s\n", r.ID, r.Name, r.Capacity, r.Kind)
			}
			return nil
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}

func cmdInstructor() *cobra.Command {
	cmd := &cobra.Command{Use: "instructor", Short: "Manage instructors"}

	var displayName string
	add := &cobra.Command{
		Use:   "add",
		Short: "Add an instructor",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.admin.AddInstructor(cmd.Context(), displayName)
			if err != nil {
				return err
			}
			fmt.Println(id)
			return nil
		},
	}
	add.Flags().StringVar(&displayName, "name", "", "instructor display name (required)")
	_ = add.MarkFlagRequired("name")

	list := &cobra.Command{
		Use:   "list",
		Short: "List instructors",
		RunE: func(cmd *cobra.Command, args []string) error {
			instructors, err := app.admin.ListInstructors(cmd.Context())
			if err != nil {
				return err
			}
			for _, i := range instructors {
				fmt.Printf("%s\t%s\n", i.ID, i.DisplayName)
			}
			return nil
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}

func cmdCourse() *cobra.Command {
	cmd := &cobra.Command{Use: "course", Short: "Manage courses"}

	var code, name, departmentID, kind, candidates string
	var semester, weeklyHours, capacityHint int
	var isOnline, isShared bool
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a course",
		RunE: func(cmd *cobra.Command, args []string) error {
			course := domain.Course{
				Code:         code,
				Name:         name,
				DepartmentID: departmentID,
				Semester:     semester,
				WeeklyHours:  weeklyHours,
				Kind:         domain.CourseKind(strings.ToUpper(kind)),
				IsOnline:     isOnline,
				CapacityHint: capacityHint,
				IsShared:     isShared,
			}
			if candidates != "" {
				course.InstructorCandidates = strings.Split(candidates, ",")
			}
			id, err := app.admin.AddCourse(cmd.Context(), course)
			if err != nil {
				return err
			}
			fmt.Println(id)
			return nil
		},
	}
	add.Flags().StringVar(&code, "code", "", "course code (required)")
	add.Flags().StringVar(&name, "name", "", "course name (required)")
	add.Flags().StringVar(&departmentID, "department-id", "", "owning department id (required)")
	add.Flags().IntVar(&semester, "semester", 1, "semester number")
	add.Flags().IntVar(&weeklyHours, "weekly-hours", 1, "weekly placement hours")
	add.Flags().StringVar(&kind, "kind", "THEORY", "course kind: THEORY, LAB, or APPLIED")
	add.Flags().BoolVar(&isOnline, "online", false, "eligible for online placement")
	add.Flags().IntVar(&capacityHint, "capacity", domain.DefaultCapacityHint, "expected enrolment")
	add.Flags().BoolVar(&isShared, "shared", false, "shared with another department's cohort")
	add.Flags().StringVar(&candidates, "instructor-candidates", "", "comma-separated ordered instructor ids")
	_ = add.MarkFlagRequired("code")
	_ = add.MarkFlagRequired("name")
	_ = add.MarkFlagRequired("department-id")

	var listDepartmentID string
	list := &cobra.Command{
		Use:   "list",
		Short: "List courses for a department",
		RunE: func(cmd *cobra.Command, args []string) error {
			courses, err := app.admin.ListCourses(cmd.Context(), listDepartmentID)
			if err != nil {
				return err
			}
			for _, c := range courses {
				fmt.Printf("%s\t%s\t%s\tsem=%d\thours=%d\n", c.ID, c.Code, c.Name, c.Semester, c.WeeklyHours)
			}
			return nil
		},
	}
	list.Flags().StringVar(&listDepartmentID, "department-id", "", "department id (required)")
	_ = list.MarkFlagRequired("department-id")

	var candidateCourseID string
	var candidateIDs string
	setCandidates := &cobra.Command{
		Use:   "set-candidates",
		Short: "Replace a course's ordered instructor candidate list",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := strings.Split(candidateIDs, ",")
			return app.admin.SetInstructorCandidates(cmd.Context(), candidateCourseID, ids)
		},
	}
	setCandidates.Flags().StringVar(&candidateCourseID, "course-id", "", "course id (required)")
	setCandidates.Flags().StringVar(&candidateIDs, "instructor-ids", "", "comma-separated ordered instructor ids (required)")
	_ = setCandidates.MarkFlagRequired("course-id")
	_ = setCandidates.MarkFlagRequired("instructor-ids")

	cmd.AddCommand(add, list, setCandidates)
	return cmd
}

func cmdBlackout() *cobra.Command {
	var slotFlags []string
	cmd := &cobra.Command{
		Use:   "blackout-set",
		Short: "Replace the university-wide blackout set",
		Long:  "Each --slot flag takes \"Day,HH:MM,HH:MM\" and may be repeated; the full set is replaced atomically.",
		RunE: func(cmd *cobra.Command, args []string) error {
			slots := make([]domain.Slot, 0, len(slotFlags))
			for _, raw := range slotFlags {
				parts := strings.Split(raw, ",")
				if len(parts) != 3 {
					return fmt.Errorf("malformed --slot %q, want Day,HH:MM,HH:MM", raw)
				}
				d, err := domain.ParseDay(strings.TrimSpace(parts[0]))
				if err != nil {
					return err
				}
				slot, err := timegrid.ParseInterval(d, strings.TrimSpace(parts[1]), strings.TrimSpace(parts[2]))
				if err != nil {
					return err
				}
				slots = append(slots, slot)
			}
			return app.admin.SetGlobalBlackouts(cmd.Context(), slots)
		},
	}
	cmd.Flags().StringArrayVar(&slotFlags, "slot", nil, "Day,HH:MM,HH:MM; repeatable")
	return cmd
}

func cmdDefineShared() *cobra.Command {
	var courseID, partnerDepartmentID string
	cmd := &cobra.Command{
		Use:   "define-shared",
		Short: "Mark a course shared with a partner department's cohort",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.admin.DefineShared(cmd.Context(), courseID, partnerDepartmentID)
		},
	}
	cmd.Flags().StringVar(&courseID, "course-id", "", "course id (required)")
	cmd.Flags().StringVar(&partnerDepartmentID, "partner-department-id", "", "partner department id (required)")
	_ = cmd.MarkFlagRequired("course-id")
	_ = cmd.MarkFlagRequired("partner-department-id")
	return cmd
}

func cmdPinFixedTime() *cobra.Command {
	var courseID, day, start, end string
	cmd := &cobra.Command{
		Use:   "pin-fixed-time",
		Short: "Record a fixed pre-placement for a course",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := domain.ParseDay(day)
			if err != nil {
				return err
			}
			slot, err := timegrid.ParseInterval(d, start, end)
			if err != nil {
				return err
			}
			return app.admin.PinFixedTime(cmd.Context(), courseID, slot)
		},
	}
	cmd.Flags().StringVar(&courseID, "course-id", "", "course id (required)")
	cmd.Flags().StringVar(&day, "day", "", "three-letter day code, e.g. Mon (required)")
	cmd.Flags().StringVar(&start, "start", "", "start time HH:MM (required)")
	cmd.Flags().StringVar(&end, "end", "", "end time HH:MM (required)")
	_ = cmd.MarkFlagRequired("course-id")
	_ = cmd.MarkFlagRequired("day")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func cmdEditAvailability() *cobra.Command {
	var instructorID string
	var slotFlags []string
	cmd := &cobra.Command{
		Use:   "edit-availability",
		Short: "Overwrite an instructor's weekly availability mask",
		Long: "Each --slot flag takes \"Day,HH:MM,HH:MM\" and may be repeated. " +
			"A day with no --slot entries at all is treated per the configured " +
			"availability_missing_day default.",
		RunE: func(cmd *cobra.Command, args []string) error {
			mask := domain.AvailabilityMask{}
			for _, raw := range slotFlags {
				parts := strings.Split(raw, ",")
				if len(parts) != 3 {
					return fmt.Errorf("malformed --slot %q, want Day,HH:MM,HH:MM", raw)
				}
				d, err := domain.ParseDay(strings.TrimSpace(parts[0]))
				if err != nil {
					return err
				}
				slot, err := timegrid.ParseInterval(d, strings.TrimSpace(parts[1]), strings.TrimSpace(parts[2]))
				if err != nil {
					return err
				}
				mask[d] = append(mask[d], slot)
			}
			return app.admin.EditAvailability(cmd.Context(), instructorID, mask)
		},
	}
	cmd.Flags().StringVar(&instructorID, "instructor-id", "", "instructor id (required)")
	cmd.Flags().StringArrayVar(&slotFlags, "slot", nil, "Day,HH:MM,HH:MM; repeatable")
	_ = cmd.MarkFlagRequired("instructor-id")
	return cmd
}

func cmdGenerate() *cobra.Command {
	var academicYear, semesterLabel string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run a scheduling generation pass and persist the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.generator.Generate(cmd.Context(), academicYear, semesterLabel)
			if err != nil {
				return err
			}
			fmt.Printf("placed %d entries\n", len(result.Ledger))
			for _, w := range result.Warnings {
				fmt.Printf("warning: %s\n", w)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&academicYear, "academic-year", "", "e.g. 2025-2026 (required)")
	cmd.Flags().StringVar(&semesterLabel, "semester", "", "Güz or Bahar (required)")
	_ = cmd.MarkFlagRequired("academic-year")
	_ = cmd.MarkFlagRequired("semester")
	return cmd
}

func cmdExport() *cobra.Command {
	var academicYear, semesterLabel, format, outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a persisted schedule to a local file",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := app.exporter.Export(cmd.Context(), academicYear, semesterLabel, service.ExportFormat(format))
			if err != nil {
				return err
			}
			if outPath == "" {
				outPath = "schedule." + format
			}
			store, err := storage.NewLocalStorage(app.cfg.Exporter.StorageDir)
			if err != nil {
				return err
			}
			saved, err := store.Save(outPath, payload)
			if err != nil {
				return fmt.Errorf("save export: %w", err)
			}
			fmt.Println(store.Path(saved))
			return nil
		},
	}
	cmd.Flags().StringVar(&academicYear, "academic-year", "", "e.g. 2025-2026 (required)")
	cmd.Flags().StringVar(&semesterLabel, "semester", "", "Güz or Bahar (required)")
	cmd.Flags().StringVar(&format, "format", "xlsx", "xlsx, csv, or pdf")
	cmd.Flags().StringVar(&outPath, "out", "", "output file name under the exporter storage directory")
	_ = cmd.MarkFlagRequired("academic-year")
	_ = cmd.MarkFlagRequired("semester")
	return cmd
}

func cmdDeleteSchedule() *cobra.Command {
	var academicYear, semesterLabel string
	cmd := &cobra.Command{
		Use:   "delete-schedule",
		Short: "Delete a persisted schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.generator.DeleteSchedule(cmd.Context(), academicYear, semesterLabel)
		},
	}
	cmd.Flags().StringVar(&academicYear, "academic-year", "", "e.g. 2025-2026 (required)")
	cmd.Flags().StringVar(&semesterLabel, "semester", "", "Güz or Bahar (required)")
	_ = cmd.MarkFlagRequired("academic-year")
	_ = cmd.MarkFlagRequired("semester")
	return cmd
}
