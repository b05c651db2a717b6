package router

import (
	"updoot/internal/handlers"
	"updoot/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes 挂载所有 API 路由
func RegisterRoutes(r *gin.Engine, authHandler *handlers.AuthHandler, postHandler *handlers.PostHandler, voteHandler *handlers.VoteHandler) {
	api := r.Group("/api")

	// 公共路由 (Public Routes)
	api.POST("/register", authHandler.Register)              // 注册
	api.POST("/login", authHandler.Login)                    // 登录
	api.POST("/logout", authHandler.Logout)                  // 退出登录
	api.GET("/me", authHandler.Me)                           // 当前登录用户
	api.POST("/forgot-password", authHandler.ForgotPassword) // 申请密码重置
	api.POST("/change-password", authHandler.ChangePassword) // 凭 token 重置密码

	api.GET("/posts", postHandler.List)          // 帖子列表（游标分页）
	api.GET("/posts/:id", postHandler.Detail)    // 帖子详情

	// 受保护路由 (Protected Routes)
	authorized := api.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/posts", postHandler.Create)        // 发帖
		authorized.PUT("/posts/:id", postHandler.Update)     // 编辑帖子（仅作者）
		authorized.DELETE("/posts/:id", postHandler.Delete)  // 删除帖子（仅作者）
		authorized.POST("/posts/:id/vote", voteHandler.Vote) // 投票
	}
}
