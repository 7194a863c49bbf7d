package dashboard

import "github.com/gin-gonic/gin"

// NewRouter wires the dashboard routes.
func NewRouter(h *Handlers) *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", h.Health)

	api := r.Group("/api")
	{
		api.GET("/meta", h.Meta)
		api.GET("/runs", h.Runs)

		views := api.Group("/view")
		{
			views.GET("/overview", h.Overview)
			views.GET("/timeseries", h.TimeSeries)
			views.GET("/comparison", h.Comparison)
			views.GET("/vaccination", h.Vaccination)
		}
	}
	return r
}
