package handler

import "github.com/gin-gonic/gin"

// Register mounts every API route on group
func Register(group *gin.RouterGroup, predict *PredictHandler, dataset *DatasetHandler, chat *ChatHandler, history *HistoryHandler) {
	group.POST("/predict", predict.Predict)
	group.GET("/tiers", predict.Tiers)
	group.POST("/bmi", predict.BMI)
	group.GET("/bmi/categories", predict.BMICategories)

	group.GET("/dataset", dataset.Preview)
	group.GET("/dataset/summary", dataset.Summary)
	group.GET("/dataset/correlation", dataset.Correlation)
	group.GET("/dataset/histogram", dataset.Histogram)
	group.GET("/dataset/scatter", dataset.Scatter)
	group.GET("/dataset/counts", dataset.Counts)
	group.GET("/dataset/export", dataset.Export)

	group.POST("/chat", chat.Chat)
	group.POST("/chat/stream", chat.ChatStream)

	group.GET("/predictions/recent", history.Recent)
	group.GET("/predictions/:id/similar", history.Similar)
}
