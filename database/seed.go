package database

import (
	"fmt"
	"log"
	"time"

	"github.com/gmpi-ec/gmpi-backend/model"
	"gorm.io/gorm"
)

// Seeder inserts demonstration rows on an empty database. It is a one-time
// bootstrap, not a migration system: nothing runs when institutions already
// exist.
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAll inserts the demonstration dataset when the institutions table is
// empty.
func (s *Seeder) SeedAll() error {
	var count int64
	if err := s.db.Model(&model.Institution{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count institutions: %w", err)
	}

	if count > 0 {
		log.Println("Institutions already present, skipping seed")
		return nil
	}

	log.Println("Seeding demonstration data...")

	if err := s.seedInstitutions(); err != nil {
		return fmt.Errorf("failed to seed institutions: %w", err)
	}

	if err := s.seedMaintenance(); err != nil {
		return fmt.Errorf("failed to seed maintenance records: %w", err)
	}

	if err := s.seedSystemConfig(); err != nil {
		return fmt.Errorf("failed to seed system config: %w", err)
	}

	log.Println("Seeding completed.")
	return nil
}

func (s *Seeder) seedInstitutions() error {
	institutions := []model.Institution{
		{
			Name:              "Universidad Laica Eloy Alfaro de Manabí",
			Type:              model.InstitutionUniversity,
			Acronym:           "ULAEM",
			Location:          "Manta, Manabí, Ecuador",
			Address:           "Ciudadela Universitaria, Vía San Mateo",
			Email:             "info@uleam.edu.ec",
			Website:           "https://www.uleam.edu.ec",
			BuildingsCount:    8,
			ClassroomsCount:   45,
			LaboratoriesCount: 12,
			TotalCapacity:     model.TotalCapacityFor(45, 12),
			Status:            model.StatusActive,
		},
		{
			Name:              "Colegio Amazonas de Quito",
			Type:              model.InstitutionCollege,
			Acronym:           "CAQ",
			Location:          "Quito, Pichincha, Ecuador",
			Address:           "Av. Amazonas y Colón, Quito",
			Email:             "info@colegioamazonas.edu.ec",
			BuildingsCount:    3,
			ClassroomsCount:   24,
			LaboratoriesCount: 6,
			TotalCapacity:     model.TotalCapacityFor(24, 6),
			Status:            model.StatusActive,
		},
		{
			Name:              "Escuela Primaria Benito Juárez",
			Type:              model.InstitutionSchool,
			Acronym:           "EPBJ",
			Location:          "Guayaquil, Guayas, Ecuador",
			Address:           "Av. 9 de Octubre y Malecón, Guayaquil",
			Email:             "info@benitojuarez.edu.ec",
			BuildingsCount:    2,
			ClassroomsCount:   12,
			LaboratoriesCount: 1,
			TotalCapacity:     model.TotalCapacityFor(12, 1),
			Status:            model.StatusActive,
		},
	}

	if err := s.db.Create(&institutions).Error; err != nil {
		return err
	}

	log.Printf("Created %d demonstration institutions\n", len(institutions))
	return nil
}

func (s *Seeder) seedMaintenance() error {
	var institutions []model.Institution
	if err := s.db.Order("id ASC").Limit(2).Find(&institutions).Error; err != nil {
		return err
	}
	if len(institutions) < 2 {
		return fmt.Errorf("expected seeded institutions, found %d", len(institutions))
	}

	first := institutions[0].ID
	second := institutions[1].ID

	electricalDate := model.NewDate(2025, time.February, 20)
	leakDate := model.NewDate(2025, time.January, 15)
	hvacDate := model.NewDate(2025, time.March, 5)
	leakCost := 850.00

	records := []model.MaintenanceRecord{
		{
			InstitutionID: &first,
			Type:          model.MaintenancePreventive,
			Title:         "Mantenimiento de sistemas eléctricos",
			Description:   "Revisión y mantenimiento de toda la instalación eléctrica",
			ScheduledDate: electricalDate,
			NextDueDate:   ptrDate(model.NextPreventiveDueDate(electricalDate)),
			Priority:      model.PriorityHigh,
			Status:        model.MaintenanceScheduled,
		},
		{
			InstitutionID: &first,
			Type:          model.MaintenanceCorrective,
			Title:         "Reparación de filtraciones en laboratorio",
			Description:   "Reparación de filtraciones detectadas en el techo del laboratorio de química",
			ScheduledDate: leakDate,
			CompletedDate: ptrDate(leakDate),
			Priority:      model.PriorityMedium,
			Status:        model.MaintenanceCompleted,
			Cost:          &leakCost,
		},
		{
			InstitutionID: &second,
			Type:          model.MaintenancePreventive,
			Title:         "Limpieza y mantenimiento de aires acondicionados",
			Description:   "Mantenimiento preventivo de sistemas de climatización",
			ScheduledDate: hvacDate,
			NextDueDate:   ptrDate(model.NextPreventiveDueDate(hvacDate)),
			Priority:      model.PriorityMedium,
			Status:        model.MaintenanceScheduled,
		},
	}

	if err := s.db.Create(&records).Error; err != nil {
		return err
	}

	log.Printf("Created %d demonstration maintenance records\n", len(records))
	return nil
}

func (s *Seeder) seedSystemConfig() error {
	configs := []model.SystemConfig{
		{KeyName: "locale", Value: "es", Description: "Idioma de los mensajes de la API"},
		{KeyName: "maintenance_cycle_months", Value: "6", Description: "Meses entre mantenimientos preventivos"},
	}

	return s.db.Create(&configs).Error
}

func ptrDate(d model.Date) *model.Date {
	return &d
}
