package swagger

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

func Handler() http.Handler {
	// Points the UI at the document served from api/openapi.yml at root.
	return httpSwagger.Handler(
		httpSwagger.URL("/openapi.yml"),
	)
}
