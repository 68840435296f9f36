package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicdesk/clinic-booking/internal/db"
	"github.com/clinicdesk/clinic-booking/internal/schedule"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	specialtyIDs, err := seedSpecialties(context.Background(), pool)
	if err != nil {
		log.Fatalf("seed specialties: %v", err)
	}
	if err := seedDoctors(context.Background(), pool, specialtyIDs, 40); err != nil {
		log.Fatalf("seed doctors: %v", err)
	}
	if err := seedSettings(context.Background(), pool); err != nil {
		log.Fatalf("seed settings: %v", err)
	}

	log.Println("seed complete")
}

func seedSpecialties(ctx context.Context, pool *pgxpool.Pool) ([]uuid.UUID, error) {
	specialties := []struct {
		name        string
		description string
	}{
		{"Dermatology", "Skin, hair and nail conditions"},
		{"Cardiology", "Heart and vascular care"},
		{"General Practice", "Primary and preventive care"},
		{"Orthopedics", "Bones, joints and muscles"},
		{"Endocrinology", "Hormonal and metabolic disorders"},
		{"Neurology", "Brain and nervous system"},
		{"Pediatrics", "Care for children and adolescents"},
		{"Psychiatry", "Mental health"},
		{"Ophthalmology", "Eye care"},
		{"ENT", "Ear, nose and throat"},
	}

	log.Printf("seeding %d specialties", len(specialties))

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]uuid.UUID, 0, len(specialties))
	for _, s := range specialties {
		id := uuid.New()

		_, err := tx.Exec(ctx, `
			INSERT INTO specialties (id, name, description, created_at, updated_at)
			VALUES ($1, $2, $3, now(), now())
		`, id, s.name, s.description)
		if err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Println("specialties seeded")
	return ids, nil
}

// randomWeeklySchedule builds a plausible clinic week: Monday to Friday
// always worked, Saturday sometimes, Sunday never.
func randomWeeklySchedule() schedule.WeeklySchedule {
	openings := []string{"08:00", "08:30", "09:00", "10:00"}
	closings := []string{"15:00", "16:00", "17:00", "18:00"}

	var s schedule.WeeklySchedule
	for day := 1; day <= 5; day++ {
		start := schedule.MustTimeOfDay(openings[gofakeit.Number(0, len(openings)-1)])
		end := schedule.MustTimeOfDay(closings[gofakeit.Number(0, len(closings)-1)])
		s.SetDay(day, schedule.DayHours{Start: &start, End: &end})
	}

	if gofakeit.Bool() {
		start := schedule.MustTimeOfDay("09:00")
		end := schedule.MustTimeOfDay("13:00")
		s.SetDay(6, schedule.DayHours{Start: &start, End: &end})
	}

	return s
}

func seedDoctors(ctx context.Context, pool *pgxpool.Pool, specialtyIDs []uuid.UUID, count int) error {
	log.Printf("seeding %d doctors", count)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		id := uuid.New()
		name := "Dr. " + gofakeit.Name()
		specialtyID := specialtyIDs[gofakeit.Number(0, len(specialtyIDs)-1)]

		scheduleJSON, err := json.Marshal(randomWeeklySchedule())
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO doctors (id, name, specialty_id, schedule, created_at, updated_at)
			VALUES ($1, $2, $3, $4, now(), now())
		`, id, name, specialtyID, scheduleJSON)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("doctors seeded")
	return nil
}

func seedSettings(ctx context.Context, pool *pgxpool.Pool) error {
	log.Println("seeding settings")

	_, err := pool.Exec(ctx, `
		INSERT INTO settings (setting_key, setting_value, updated_at)
		VALUES ('appointment_duration', '30', now())
		ON CONFLICT (setting_key) DO NOTHING
	`)
	if err != nil {
		return err
	}

	log.Println("settings seeded")
	return nil
}
