package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"db-slice-export/internal/models"
)

// ScheduleService runs the configured seed exports on a cron schedule in
// server mode and writes each result to a timestamped .sql file.
type ScheduleService struct {
	exportService *ExportService
	cron          *cron.Cron
	cronSchedule  string
	seeds         []models.Seed
	outputDir     string
	isRunning     bool
	mutex         sync.RWMutex
	seedStatus    map[string]*models.ExportStatus
	lastRunTime   time.Time
	nextRunTime   time.Time
}

func NewScheduleService(exportService *ExportService, cronSchedule string, seeds []models.Seed, outputDir string) *ScheduleService {
	return &ScheduleService{
		exportService: exportService,
		cron:          cron.New(),
		cronSchedule:  cronSchedule,
		seeds:         seeds,
		outputDir:     outputDir,
		seedStatus:    make(map[string]*models.ExportStatus),
	}
}

// Start registers the cron job and begins scheduling. It fails when no
// schedule or no seeds are configured.
func (s *ScheduleService) Start() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler already running")
	}
	if s.cronSchedule == "" {
		return fmt.Errorf("no export schedule configured")
	}
	if len(s.seeds) == 0 {
		return fmt.Errorf("no export seeds configured")
	}

	log.Printf("Starting export scheduler with schedule: %s", s.cronSchedule)

	entryID, err := s.cron.AddFunc(s.cronSchedule, func() {
		s.mutex.Lock()
		s.lastRunTime = time.Now()
		s.mutex.Unlock()

		s.RunNow()

		s.mutex.Lock()
		if entries := s.cron.Entries(); len(entries) > 0 {
			s.nextRunTime = entries[0].Next
		}
		s.mutex.Unlock()
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %v", err)
	}

	s.cron.Start()
	s.isRunning = true

	if entries := s.cron.Entries(); len(entries) > 0 {
		s.nextRunTime = entries[0].Next
		log.Printf("Next export scheduled at: %s", s.nextRunTime.Format("2006-01-02 15:04:05"))
	}

	log.Printf("Export scheduler started (Entry ID: %d)", entryID)
	return nil
}

// Stop halts the scheduler and waits for a running export to finish.
func (s *ScheduleService) Stop() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isRunning {
		return fmt.Errorf("scheduler is not running")
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	log.Println("Export scheduler stopped")
	return nil
}

func (s *ScheduleService) IsRunning() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.isRunning
}

// RunNow exports every configured seed once. Each seed is an independent
// run: a failure marks that seed's status and the remaining seeds still
// export.
func (s *ScheduleService) RunNow() {
	log.Printf("Starting scheduled export of %d seeds", len(s.seeds))

	for _, seed := range s.seeds {
		s.runSeed(seed)
	}

	log.Println("Scheduled export completed")
}

func (s *ScheduleService) runSeed(seed models.Seed) {
	name := seedName(seed)
	log.Printf("Exporting seed %s", name)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	statements, err := s.exportService.Export(ctx, seed.Table, seed.Keys)
	if err != nil {
		log.Printf("Error exporting seed %s: %v", name, err)
		s.updateSeedStatus(name, "error", err.Error(), 0, "")
		return
	}

	outputFile, err := s.writeScript(seed, statements)
	if err != nil {
		log.Printf("Error writing export for seed %s: %v", name, err)
		s.updateSeedStatus(name, "error", err.Error(), len(statements), "")
		return
	}

	s.updateSeedStatus(name, "success", "", len(statements), outputFile)
	log.Printf("Seed %s exported: %d statements -> %s", name, len(statements), outputFile)
}

func (s *ScheduleService) writeScript(seed models.Seed, statements []models.Statement) (string, error) {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %v", err)
	}

	var sb strings.Builder
	for _, stmt := range statements {
		sb.WriteString(stmt.SQL)
		sb.WriteString("\n")
	}

	name := fmt.Sprintf("%s-%s.sql", seed.Table, time.Now().Format("20060102-150405"))
	path := filepath.Join(s.outputDir, name)

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %v", path, err)
	}

	return path, nil
}

func (s *ScheduleService) updateSeedStatus(name, status, errMsg string, statements int, outputFile string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.seedStatus[name] = &models.ExportStatus{
		Seed:           name,
		Statements:     statements,
		OutputFile:     outputFile,
		LastExportTime: time.Now(),
		Status:         status,
		ErrorMessage:   errMsg,
	}
}

func (s *ScheduleService) GetStatus() map[string]interface{} {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	seedStatusCopy := make(map[string]models.ExportStatus)
	for k, v := range s.seedStatus {
		if v != nil {
			seedStatusCopy[k] = *v
		}
	}

	var lastRun, nextRun string
	if !s.lastRunTime.IsZero() {
		lastRun = s.lastRunTime.Format("2006-01-02 15:04:05")
	}
	if !s.nextRunTime.IsZero() {
		nextRun = s.nextRunTime.Format("2006-01-02 15:04:05")
	}

	return map[string]interface{}{
		"isRunning":    s.isRunning,
		"cronSchedule": s.cronSchedule,
		"outputDir":    s.outputDir,
		"seedCount":    len(s.seeds),
		"lastRun":      lastRun,
		"nextRun":      nextRun,
		"seeds":        seedStatusCopy,
	}
}

// UpdateConfig changes the schedule, seed list or output directory. A
// schedule change takes effect on the next Start.
func (s *ScheduleService) UpdateConfig(cronSchedule, seeds, outputDir string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if seeds != "" {
		parsed, err := models.ParseSeeds(seeds)
		if err != nil {
			return err
		}
		s.seeds = parsed
	}

	if cronSchedule != "" && cronSchedule != s.cronSchedule {
		s.cronSchedule = cronSchedule
		if s.isRunning {
			log.Println("Schedule changed - restart scheduler to apply new schedule")
		}
	}

	if outputDir != "" {
		s.outputDir = outputDir
	}

	log.Printf("Configuration updated - Schedule: %s, Seeds: %d, Output: %s",
		s.cronSchedule, len(s.seeds), s.outputDir)

	return nil
}

func seedName(seed models.Seed) string {
	parts := make([]string, len(seed.Keys))
	for i, key := range seed.Keys {
		strs := make([]string, len(key))
		for j, v := range key {
			strs[j] = fmt.Sprintf("%v", v)
		}
		parts[i] = strings.Join(strs, ",")
	}
	return seed.Table + ":" + strings.Join(parts, ",")
}
