package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers 所有业务处理器
type Handlers struct {
	User     *UserHandler
	Case     *CaseHandler
	Browse   *BrowseHandler
	Interest *InterestHandler
	Offer    *OfferHandler
	Feed     *FeedHandler
}

// RegisterRoutes 注册 /api/v1 下的业务路由，除登录外都需要认证
func RegisterRoutes(api *gin.RouterGroup, h *Handlers, auth gin.HandlerFunc) {
	// 公开路由
	api.POST("/users/signin", h.User.SignIn)

	// 需要认证的路由
	authed := api.Group("")
	authed.Use(auth)

	users := authed.Group("/users")
	{
		users.GET("/me", h.User.Me)
		users.PUT("/me/region", h.User.UpdateRegion)
		users.GET("/:user_id/rating", h.User.Rating)
		users.GET("/:user_id/cases", h.Case.ListByUser)
	}

	cases := authed.Group("/cases")
	{
		cases.POST("", h.Case.Create)
		cases.GET("/mine", h.Case.ListMine)
		cases.GET("/archived", h.Case.ListArchived)
		cases.PUT("/:case_id", h.Case.Update)
		cases.DELETE("/:case_id", h.Case.Delete)
		cases.POST("/:case_id/restore", h.Case.Restore)
		cases.POST("/:case_id/like", h.Browse.Like)
	}

	authed.GET("/candidates", h.Browse.Candidates)
	authed.GET("/favorites", h.Case.Favorites)

	interests := authed.Group("/interests")
	{
		interests.POST("", h.Interest.Add)
		interests.GET("", h.Interest.List)
		interests.DELETE("/:interest_id", h.Interest.Delete)
	}

	offers := authed.Group("/offers")
	{
		offers.POST("", h.Offer.Create)
		offers.GET("/history", h.Offer.History)
		offers.PUT("/:offer_id", h.Offer.Respond)
		offers.GET("/:offer_id/transitions", h.Offer.Transitions)
	}

	feed := authed.Group("/feed")
	{
		feed.GET("", h.Feed.Get)
		feed.DELETE("", h.Feed.Clear)
		feed.GET("/badge", h.Feed.Badge)
	}
}
