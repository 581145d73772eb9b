package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"careerhub/config"
	"careerhub/database"
	"careerhub/logger"
	"careerhub/models"
	courseModels "careerhub/models/course"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeds an admin account (ADMIN_EMAIL, ADMIN_PASSWORD, ADMIN_NAME) and
// optionally imports a course catalogue CSV given as the first argument:
//
//	go run ./scripts catalog.csv
//
// CSV columns: courseTitle, courseDescription, category, level, lessonTitle,
// lessonOrder, lessonType, lessonDuration, lessonStatus, textContent, videoUrl.
// One row per lesson; rows sharing a courseTitle belong to the same course.
func main() {
	config.LoadConfig()
	log, err := logger.New(config.AppConfig.LogMode)
	if err != nil {
		panic(err)
	}
	logger.Log = log

	if err := database.ConnectDb(config.AppConfig); err != nil {
		log.Fatal("database connection failed", "error", err)
	}
	db := database.Database.Db

	admin, err := ensureAdmin(db, os.Getenv("ADMIN_NAME"), os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD"), config.AppConfig.SaltRound)
	if err != nil {
		log.Fatal("seed admin failed", "error", err)
	}
	log.Info("admin ready", "user_id", admin.ID, "email", admin.Email)

	if len(os.Args) < 2 {
		return
	}

	file, err := os.Open(os.Args[1])
	if err != nil {
		log.Fatal("open csv", "path", os.Args[1], "error", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		log.Fatal("read csv", "error", err)
	}

	stats, err := importRows(db, records, admin.ID)
	if err != nil {
		log.Fatal("import failed", "error", err)
	}
	log.Info("import complete",
		"courses_created", stats.coursesCreated,
		"lessons_created", stats.lessonsCreated,
		"lessons_updated", stats.lessonsUpdated,
		"skipped", stats.skipped,
	)
}

// ensureAdmin creates the admin account, or promotes an existing account
// with the same email.
func ensureAdmin(db *gorm.DB, name, email, password string, saltRound int) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, errors.New("ADMIN_EMAIL is required")
	}

	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	if err == nil {
		if user.Role != models.RoleAdmin {
			if err := db.Model(&user).Update("role", models.RoleAdmin).Error; err != nil {
				return nil, err
			}
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if len(password) < 8 {
		return nil, errors.New("ADMIN_PASSWORD must be at least 8 characters")
	}
	if strings.TrimSpace(name) == "" {
		name = "Administrator"
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), saltRound)
	if err != nil {
		return nil, err
	}
	user = models.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

type importStats struct {
	coursesCreated int
	lessonsCreated int
	lessonsUpdated int
	skipped        int
}

func importRows(db *gorm.DB, records [][]string, instructorID uint) (importStats, error) {
	var stats importStats
	if len(records) < 2 {
		return stats, errors.New("CSV file is empty or has only headers")
	}

	// Map header indices
	headerIndex := make(map[string]int)
	for i, h := range records[0] {
		headerIndex[strings.TrimSpace(h)] = i
	}

	courses := map[string]*courseModels.Course{}

	for i, row := range records[1:] {
		courseTitle := getField(row, headerIndex, "courseTitle")
		lessonTitle := getField(row, headerIndex, "lessonTitle")
		order := parseInt(getField(row, headerIndex, "lessonOrder"))
		if courseTitle == "" || lessonTitle == "" || order <= 0 {
			logger.Log.Warn("skipping row", "row", i+2)
			stats.skipped++
			continue
		}

		course, ok := courses[courseTitle]
		if !ok {
			course = &courseModels.Course{}
			err := db.Where("title = ?", courseTitle).First(course).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				*course = courseModels.Course{
					Title:        courseTitle,
					Description:  getField(row, headerIndex, "courseDescription"),
					Category:     oneOf(getField(row, headerIndex, "category"), courseModels.CourseCategories, "other"),
					Level:        oneOf(getField(row, headerIndex, "level"), courseModels.CourseLevels, "beginner"),
					InstructorID: instructorID,
					Status:       courseModels.CourseStatusDraft,
				}
				if err := db.Create(course).Error; err != nil {
					return stats, fmt.Errorf("row %d: create course %q: %w", i+2, courseTitle, err)
				}
				stats.coursesCreated++
			} else if err != nil {
				return stats, fmt.Errorf("row %d: %w", i+2, err)
			}
			courses[courseTitle] = course
		}

		lesson := courseModels.Lesson{
			CourseID:    course.ID,
			Title:       lessonTitle,
			Order:       order,
			Type:        oneOf(getField(row, headerIndex, "lessonType"), courseModels.LessonTypes, "text"),
			Duration:    parseInt(getField(row, headerIndex, "lessonDuration")),
			Status:      oneOf(getField(row, headerIndex, "lessonStatus"), []string{courseModels.LessonStatusDraft, courseModels.LessonStatusPublished}, courseModels.LessonStatusDraft),
			TextContent: getField(row, headerIndex, "textContent"),
			VideoURL:    getField(row, headerIndex, "videoUrl"),
		}

		// Lessons are matched by (course, order)
		var existing courseModels.Lesson
		err := db.Where(`course_id = ? AND "order" = ?`, course.ID, order).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := db.Create(&lesson).Error; err != nil {
				return stats, fmt.Errorf("row %d: create lesson %q: %w", i+2, lessonTitle, err)
			}
			stats.lessonsCreated++
		case err != nil:
			return stats, fmt.Errorf("row %d: %w", i+2, err)
		default:
			lesson.ID = existing.ID
			lesson.CreatedAt = existing.CreatedAt
			if err := db.Save(&lesson).Error; err != nil {
				return stats, fmt.Errorf("row %d: update lesson %q: %w", i+2, lessonTitle, err)
			}
			stats.lessonsUpdated++
		}
	}
	return stats, nil
}

// getField safely gets a field from the row by header name
func getField(row []string, headerIndex map[string]int, field string) string {
	if idx, ok := headerIndex[field]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

// parseInt converts string to int
func parseInt(s string) int {
	if s == "" {
		return 0
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return val
}

func oneOf(value string, allowed []string, fallback string) string {
	value = strings.ToLower(value)
	for _, a := range allowed {
		if a == value {
			return value
		}
	}
	return fallback
}
