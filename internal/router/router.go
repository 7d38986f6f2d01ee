package router

import (
	"shulin/internal/handlers"
	"shulin/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Handlers
	authHandler := handlers.NewAuthHandler()
	postHandler := handlers.NewPostHandler()
	commentHandler := handlers.NewCommentHandler()
	voteHandler := handlers.NewVoteHandler()
	boardHandler := handlers.NewBoardHandler()
	userHandler := handlers.NewUserHandler()
	bookmarkHandler := handlers.NewBookmarkHandler()
	notificationHandler := handlers.NewNotificationHandler()

	api := r.Group("/api")

	// 公共路由 (Public Routes)
	api.GET("/posts", postHandler.Feed)                   // 全站信息流
	api.GET("/posts/:pid", postHandler.Detail)            // 帖子详情
	api.GET("/posts/:pid/comments", commentHandler.Tree)  // 评论树 / 加载更多回复
	api.GET("/boards", boardHandler.List)                 // 版块列表
	api.GET("/boards/:name", boardHandler.Get)            // 版块信息
	api.GET("/boards/:name/posts", postHandler.BoardFeed) // 版块信息流
	api.GET("/users/:username", userHandler.Profile)      // 用户主页

	api.POST("/signup", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.POST("/logout", authHandler.Logout)
	api.GET("/me", authHandler.Me)

	// 受保护路由 (Protected Routes)
	authorized := api.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/posts", postHandler.Create)                   // 发帖
		authorized.DELETE("/posts/:pid", postHandler.Delete)            // 删帖（墓碑）
		authorized.POST("/posts/:pid/comments", commentHandler.Create)  // 发评论
		authorized.DELETE("/comments/:cid", commentHandler.Delete)      // 删评论（墓碑）
		authorized.POST("/vote/:type/:id", voteHandler.Vote)            // 投票/撤销/改向
		authorized.POST("/boards", boardHandler.Create)                 // 建版块
		authorized.POST("/boards/:name/subscribe", boardHandler.Subscribe)
		authorized.DELETE("/boards/:name/subscribe", boardHandler.Unsubscribe)
		authorized.POST("/bookmark/:id", bookmarkHandler.Toggle)        // 收藏/取消收藏
		authorized.GET("/bookmarks", bookmarkHandler.List)              // 我的收藏
		authorized.GET("/karma", userHandler.KarmaLogs)                 // 声望明细
		authorized.GET("/subscriptions", userHandler.Subscriptions)     // 我的订阅
		authorized.GET("/notifications", notificationHandler.List)      // 我的通知
		authorized.POST("/notifications/:id/read", notificationHandler.Read)
		authorized.POST("/notifications/read-all", notificationHandler.ReadAll)
		authorized.DELETE("/notifications/:id", notificationHandler.Delete)
	}
}
