package service

import (
	"testing"

	"esmu-server/internal/model"
	"esmu-server/internal/repository"
	"esmu-server/pkg/config"
	"esmu-server/pkg/db"
	"esmu-server/pkg/logger"

	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) {
	if err := config.InitTest(); err != nil {
		t.Fatalf("Failed to initialize config: %v", err)
	}

	if err := logger.InitLogger("error", false); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	// 配置测试数据库连接
	if err := db.InitDB(); err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	cleanupUserTable(t)
}

func TestAuthService_Register(t *testing.T) {
	setupTestDB(t)
	userRepo := repository.NewUserRepository()
	service := NewAuthService(userRepo)

	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr bool
	}{
		{
			name: "Valid registration",
			req: RegisterRequest{
				FirstName: "Alice",
				LastName:  "Chen",
				Email:     "alice@example.com",
				Password:  "password123",
			},
			wantErr: false,
		},
		{
			name: "Duplicate email",
			req: RegisterRequest{
				FirstName: "Another",
				LastName:  "Alice",
				Email:     "alice@example.com",
				Password:  "password123",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := service.Register(tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("Register() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr {
				if user == nil {
					t.Fatal("Register() returned nil user for successful registration")
				}
				if user.ID == "" {
					t.Error("Register() did not assign a user ID")
				}
				if user.Email != tt.req.Email {
					t.Errorf("Register() got email = %v, want %v", user.Email, tt.req.Email)
				}
				if user.Role != model.RoleUser {
					t.Errorf("Register() got role = %v, want %v", user.Role, model.RoleUser)
				}
				if user.Status != model.StatusActive {
					t.Errorf("Register() got status = %v, want %v", user.Status, model.StatusActive)
				}
				if user.Password == tt.req.Password {
					t.Error("Register() stored plaintext password")
				}
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	setupTestDB(t)
	userRepo := repository.NewUserRepository()
	service := NewAuthService(userRepo)

	// 先注册一个测试用户
	registerReq := RegisterRequest{
		FirstName: "Login",
		LastName:  "Test",
		Email:     "login@example.com",
		Password:  "password123",
	}
	_, err := service.Register(registerReq)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	tests := []struct {
		name    string
		req     LoginRequest
		wantErr bool
	}{
		{
			name: "Valid login",
			req: LoginRequest{
				Email:    "login@example.com",
				Password: "password123",
			},
			wantErr: false,
		},
		{
			name: "Unknown email",
			req: LoginRequest{
				Email:    "nonexistent@example.com",
				Password: "password123",
			},
			wantErr: true,
		},
		{
			name: "Invalid password",
			req: LoginRequest{
				Email:    "login@example.com",
				Password: "wrongpassword",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, user, err := service.Login(tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("Login() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr {
				if token == "" {
					t.Error("Login() returned empty token for successful login")
				}
				if user == nil {
					t.Error("Login() returned nil user for successful login")
				}
				if user != nil && user.Email != tt.req.Email {
					t.Errorf("Login() got email = %v, want %v", user.Email, tt.req.Email)
				}
			}
		})
	}
}

// 帮助函数：清空 users 表中的所有数据
func cleanupUserTable(t *testing.T) {
	if err := db.DB.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&model.User{}).Error; err != nil {
		t.Logf("Failed to cleanup users table: %v", err)
	}
}
