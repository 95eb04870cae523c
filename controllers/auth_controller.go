package controllers

import (
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"go-plantshelf/middleware"
	"go-plantshelf/utils"
)

// AuthController 处理用户注册登录，签发会话令牌
type AuthController struct {
	DB     *sql.DB
	Secret string
}

// NewAuthController 创建一个新的 AuthController 实例
func NewAuthController(db *sql.DB, secret string) *AuthController {
	return &AuthController{DB: db, Secret: secret}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register 用户注册
func (c *AuthController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(ctx, "username and password are required")
		return
	}

	username, ok := utils.ValidateString(req.Username, utils.DefaultMaxStringLen)
	if !ok {
		utils.BadRequest(ctx, "username and password are required")
		return
	}

	// 检查用户名是否已存在
	var count int
	err := c.DB.QueryRow("SELECT COUNT(*) FROM users WHERE username = ?", username).Scan(&count)
	if err != nil {
		utils.ServerError(ctx, err)
		return
	}
	if count > 0 {
		utils.BadRequest(ctx, "Username already exists")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.ServerError(ctx, err)
		return
	}

	result, err := c.DB.Exec(
		"INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)",
		username, string(hashed), time.Now().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		utils.ServerError(ctx, err)
		return
	}

	userID, err := result.LastInsertId()
	if err != nil {
		utils.ServerError(ctx, err)
		return
	}

	token, err := c.generateToken(int(userID))
	if err != nil {
		utils.ServerError(ctx, err)
		return
	}

	utils.Created(ctx, gin.H{
		"token":    token,
		"username": username,
		"userId":   userID,
	})
}

// Login 用户登录
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(ctx, "username and password are required")
		return
	}

	var (
		userID int
		hash   string
	)
	err := c.DB.QueryRow(
		"SELECT id, password_hash FROM users WHERE username = ?", req.Username,
	).Scan(&userID, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// 用户不存在和密码错误对外不可区分
			utils.BadRequest(ctx, "Invalid username or password")
			return
		}
		utils.ServerError(ctx, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		utils.BadRequest(ctx, "Invalid username or password")
		return
	}

	token, err := c.generateToken(userID)
	if err != nil {
		utils.ServerError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{
		"token":    token,
		"username": req.Username,
		"userId":   userID,
	})
}

// generateToken 签发 7 天有效期的会话令牌
func (c *AuthController) generateToken(userID int) (string, error) {
	claims := middleware.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(userID),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(7 * 24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(c.Secret))
}
