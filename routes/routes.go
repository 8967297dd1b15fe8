package routes

import (
	"github.com/djdreamfix/Code-Companion/controllers"
	"github.com/djdreamfix/Code-Companion/middlewares"

	"github.com/gin-gonic/gin"
)

func SetupRouter(
	marks *controllers.MarkController,
	push *controllers.PushController,
	realtime *controllers.RealtimeController,
) *gin.Engine {
	r := gin.Default()
	r.Use(middlewares.CORS())

	api := r.Group("/api")
	{
		api.GET("/marks", marks.List)
		api.POST("/marks", marks.Create)

		api.GET("/push/public-key", push.PublicKey)
		api.POST("/push/subscribe", push.Subscribe)
		api.POST("/push/unsubscribe", push.Unsubscribe)
	}

	r.GET("/ws", realtime.MarksWS)

	return r
}
