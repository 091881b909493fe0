package helpers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"donorlink/database"
	"donorlink/internal/app"
	"donorlink/internal/config"
	"donorlink/internal/logger"
)

// TestServer - httptest-сервер поверх тестовой БД
type TestServer struct {
	Server *httptest.Server
	DB     *gorm.DB
}

// NewTestServer поднимает приложение на тестовой базе.
// Без DATABASE_URL интеграционные тесты пропускаются целиком.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL не задан, интеграционные тесты пропущены")
	}

	config.LoadConfig()
	cfg := config.GetConfig()
	logger.Init("test")

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		t.Fatalf("Не удалось подключиться к тестовой БД (%s): %v", cfg.Database.DSN, err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Не удалось выполнить миграции тестовой БД: %v", err)
	}

	router := app.SetupRouter(cfg, db)
	server := httptest.NewServer(router)

	return &TestServer{Server: server, DB: db}
}

func (ts *TestServer) Close() {
	ts.Server.Close()
	sqlDB, _ := ts.DB.DB()
	sqlDB.Close()
}

// ClearTables очищает все таблицы между тестами
func (ts *TestServer) ClearTables(t *testing.T) {
	t.Helper()
	err := ts.DB.Exec("TRUNCATE TABLE users, donation_requests, offers, messages, notifications RESTART IDENTITY CASCADE").Error
	if err != nil {
		t.Fatalf("Не удалось очистить таблицы: %v", err)
	}
}

// SendRequest выполняет HTTP-запрос к тестовому серверу
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Ошибка кодирования JSON для запроса: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	if err != nil {
		t.Fatalf("Ошибка создания HTTP-запроса: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Ошибка выполнения HTTP-запроса: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Ошибка чтения тела ответа: %v", err)
	}
	return resp, string(respBody)
}

// RegisterUser регистрирует пользователя и возвращает токен и id
func (ts *TestServer) RegisterUser(t *testing.T, email, displayName string) (token, userID string) {
	t.Helper()

	resp, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":        email,
		"password":     "password123",
		"display_name": displayName,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Регистрация %s не удалась (%d): %s", email, resp.StatusCode, body)
	}

	var parsed struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		t.Fatalf("Ошибка разбора ответа регистрации: %v", err)
	}
	return parsed.Token, parsed.User.ID
}

// CreateRequest создает открытую заявку и возвращает ее id
func (ts *TestServer) CreateRequest(t *testing.T, token, kind, title string) string {
	t.Helper()

	payload := map[string]string{"kind": kind, "title": title}
	if kind == "blood" {
		payload["blood_type"] = "O+"
	}
	resp, body := ts.SendRequest(t, http.MethodPost, "/api/v1/requests", token, payload)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Создание заявки не удалось (%d): %s", resp.StatusCode, body)
	}

	var parsed struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		t.Fatalf("Ошибка разбора ответа заявки: %v", err)
	}
	return parsed.ID
}

// UniqueEmail генерирует уникальный адрес для изоляции тестов
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, nextEmailID())
}

var emailCounter int

func nextEmailID() int {
	emailCounter++
	return emailCounter
}
