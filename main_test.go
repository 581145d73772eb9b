package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"careerhub/config"
	"careerhub/database"
	"careerhub/database/dbtest"
	"careerhub/middleware"
	"careerhub/models"
	"careerhub/notifier"
	"careerhub/services/learning"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	db := dbtest.Open(t)
	database.Database = database.DbInstance{Db: db}
	config.AppConfig = &config.Config{
		JWTKey:            "test-secret",
		JWTTTL:            time.Hour,
		SaltRound:         bcrypt.MinCost,
		FrontendURL:       "http://localhost:3000",
		CertificatePrefix: "CRH",
	}
	svc := learning.NewService(db, notifier.Discard{}, nil, learning.Options{
		CertificatePrefix: "CRH",
		FrontendURL:       config.AppConfig.FrontendURL,
	})
	return setupApp(config.AppConfig, svc)
}

func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if resp.Header.Get("Content-Type") == fiber.MIMEApplicationJSON {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func decode(t *testing.T, raw json.RawMessage, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v), string(raw))
}

func signup(t *testing.T, app *fiber.App, name, email string) string {
	t.Helper()
	status, env := call(t, app, http.MethodPost, "/api/auth/signup", "", fiber.Map{
		"name": name, "email": email, "password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var data struct {
		Token string `json:"token"`
	}
	decode(t, env.Data, &data)
	return data.Token
}

func adminToken(t *testing.T) string {
	t.Helper()
	admin := models.User{Name: "Grace Admin", Email: "admin@example.com", Password: "x", Role: models.RoleAdmin}
	require.NoError(t, database.Database.Db.Create(&admin).Error)
	token, err := middleware.GenerateJWT(admin.ID, admin.Name, admin.Role, admin.Email)
	require.NoError(t, err)
	return token
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	status, env := call(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
}

func TestLearnerJourney(t *testing.T) {
	app := newTestApp(t)
	admin := adminToken(t)
	learner := signup(t, app, "Ada Learner", "ada@example.com")

	// learners cannot author courses
	status, _ := call(t, app, http.MethodPost, "/api/courses", learner, fiber.Map{
		"title": "Nope", "description": "Nope", "category": "technology", "level": "beginner",
	})
	assert.Equal(t, http.StatusForbidden, status)

	status, env := call(t, app, http.MethodPost, "/api/courses", admin, fiber.Map{
		"title": "Intro to Go", "description": "Learn Go", "category": "technology", "level": "beginner",
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var course struct {
		ID     uint   `json:"ID"`
		Status string `json:"status"`
	}
	decode(t, env.Data, &course)
	assert.Equal(t, "draft", course.Status)

	var lessonIDs []uint
	for i := 1; i <= 2; i++ {
		status, env = call(t, app, http.MethodPost, fmt.Sprintf("/api/lessons/course/%d", course.ID), admin, fiber.Map{
			"title": fmt.Sprintf("Lesson %d", i), "order": i, "type": "text", "status": "published",
		})
		require.Equal(t, http.StatusCreated, status, env.Message)
		var lesson struct {
			ID uint `json:"ID"`
		}
		decode(t, env.Data, &lesson)
		lessonIDs = append(lessonIDs, lesson.ID)
	}

	status, env = call(t, app, http.MethodPut, fmt.Sprintf("/api/courses/%d/publish", course.ID), admin, nil)
	require.Equal(t, http.StatusOK, status, env.Message)

	status, env = call(t, app, http.MethodPost, fmt.Sprintf("/api/lessons/%d/complete", lessonIDs[0]), learner, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Course progress not found. Please enroll first.", env.Message)

	status, env = call(t, app, http.MethodPost, fmt.Sprintf("/api/courses/%d/enroll", course.ID), learner, nil)
	require.Equal(t, http.StatusOK, status, env.Message)

	status, env = call(t, app, http.MethodPost, fmt.Sprintf("/api/courses/%d/enroll", course.ID), learner, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Already enrolled in this course", env.Message)

	status, env = call(t, app, http.MethodPost, fmt.Sprintf("/api/lessons/%d/complete", lessonIDs[0]), learner, nil)
	require.Equal(t, http.StatusOK, status, env.Message)
	var step learning.LessonCompletion
	decode(t, env.Data, &step)
	assert.Equal(t, 50, step.Progress)

	status, env = call(t, app, http.MethodPost, fmt.Sprintf("/api/lessons/%d/complete", lessonIDs[1]), learner, nil)
	require.Equal(t, http.StatusOK, status, env.Message)
	decode(t, env.Data, &step)
	assert.Equal(t, 100, step.Progress)
	require.NotNil(t, step.Certificate)
	certID := step.Certificate.CertificateID

	status, env = call(t, app, http.MethodGet, "/api/certificates/verify/"+certID, "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Certificate is valid", env.Message)
	var verified learning.VerifiedCertificate
	decode(t, env.Data, &verified)
	assert.Equal(t, "Ada Learner", verified.UserName)
	assert.Equal(t, "Intro to Go", verified.CourseName)

	status, env = call(t, app, http.MethodGet, "/api/certificates/verify/CRH-0-UNKNOWN00", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Certificate not found or invalid certificate ID", env.Message)

	status, _ = call(t, app, http.MethodGet, "/api/certificates/verify/bad%20id", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = call(t, app, http.MethodGet, fmt.Sprintf("/api/courses/%d/progress", course.ID), learner, nil)
	require.Equal(t, http.StatusOK, status, env.Message)

	status, _ = call(t, app, http.MethodGet, fmt.Sprintf("/api/certificates/%d/download", step.Certificate.ID), learner, nil)
	assert.Equal(t, http.StatusOK, status)

	other := signup(t, app, "Other Learner", "other@example.com")
	status, _ = call(t, app, http.MethodGet, fmt.Sprintf("/api/certificates/%d", step.Certificate.ID), other, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestSignupAndLogin(t *testing.T) {
	app := newTestApp(t)
	signup(t, app, "Ada Learner", "ada@example.com")

	status, env := call(t, app, http.MethodPost, "/api/auth/signup", "", fiber.Map{
		"name": "Ada Again", "email": "ADA@example.com", "password": "correct-horse",
	})
	assert.Equal(t, http.StatusConflict, status, env.Message)

	status, _ = call(t, app, http.MethodPost, "/api/auth/signup", "", fiber.Map{
		"name": "A", "email": "not-an-email", "password": "short",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, env = call(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": "ada@example.com", "password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, status, env.Message)
	var data struct {
		Token string `json:"token"`
	}
	decode(t, env.Data, &data)

	status, env = call(t, app, http.MethodGet, "/api/auth/login/history", data.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var history []models.LoginHistory
	decode(t, env.Data, &history)
	assert.Len(t, history, 1)

	status, _ = call(t, app, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestLoginLockout(t *testing.T) {
	app := newTestApp(t)
	signup(t, app, "Ada Learner", "ada@example.com")

	for i := 0; i < 5; i++ {
		status, _ := call(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
			"email": "ada@example.com", "password": "wrong-password",
		})
		require.Equal(t, http.StatusUnauthorized, status)
	}

	status, env := call(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": "ada@example.com", "password": "correct-horse",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, env.Message, "temporarily blocked")
}
