package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"carvewood-storefront/cart"
	"carvewood-storefront/cms"
	"carvewood-storefront/middleware"
	"carvewood-storefront/models"
	"carvewood-storefront/session"
	"carvewood-storefront/storage"
	"carvewood-storefront/utils"

	"github.com/gin-gonic/gin"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("SESSION_SECRET", "test-secret-key-for-unit-tests")
	os.Exit(m.Run())
}

// ==================== Fake CMS ====================

// newCMSServer stands in for the headless CMS. It serves a two-product
// catalog, accepts two known accounts, and records admin catalog writes.
func newCMSServer(t *testing.T) *httptest.Server {
	t.Helper()

	products := map[string]map[string]interface{}{
		"1": {
			"id":    1,
			"name":  "Carved Elephant",
			"price": 4500.0,
			"images": []map[string]interface{}{
				{"url": "/uploads/elephant.jpg"},
			},
		},
		"2": {
			"id":     2,
			"name":   "Teak Cabinet",
			"price":  12000.0,
			"images": []map[string]interface{}{},
		},
	}

	accounts := map[string]string{
		"somchai@example.com": "password123",
		"owner@example.com":   "password123",
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		list := []interface{}{products["1"], products["2"]}
		json.NewEncoder(w).Encode(map[string]interface{}{"data": list})
	})

	mux.HandleFunc("GET /api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		p, ok := products[r.PathValue("id")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"data": p})
	})

	mux.HandleFunc("POST /api/products", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer cms-token-") {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		var body struct {
			Data map[string]interface{} `json:"data"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		body.Data["id"] = 50
		json.NewEncoder(w).Encode(map[string]interface{}{"data": body.Data})
	})

	mux.HandleFunc("PUT /api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		p, ok := products[r.PathValue("id")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var body struct {
			Data map[string]interface{} `json:"data"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		body.Data["id"] = p["id"]
		json.NewEncoder(w).Encode(map[string]interface{}{"data": body.Data})
	})

	mux.HandleFunc("DELETE /api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := products[r.PathValue("id")]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"data":null}`))
	})

	mux.HandleFunc("POST /api/auth/local", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Identifier string `json:"identifier"`
			Password   string `json:"password"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if accounts[req.Identifier] != req.Password || req.Password == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]string{"message": "Invalid identifier or password"},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jwt": "cms-token-" + req.Identifier,
			"user": map[string]interface{}{
				"id": 7, "username": strings.Split(req.Identifier, "@")[0], "email": req.Identifier,
			},
		})
	})

	mux.HandleFunc("POST /api/auth/local/register", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if _, exists := accounts[req.Email]; exists {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]string{"message": "Email or Username are already taken"},
			})
			return
		}
		accounts[req.Email] = req.Password
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jwt": "cms-token-" + req.Email,
			"user": map[string]interface{}{
				"id": 8, "username": req.Username, "email": req.Email,
			},
		})
	})

	mux.HandleFunc("GET /api/orders", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer cms-token-") {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{
					"id":          1,
					"orderNumber": "ORD-1001",
					"orderDate":   "2025-11-02",
					"totalAmount": 4500.0,
					"products":    []interface{}{products["1"]},
				},
			},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// ==================== Router Setup Helpers ====================

// setupCartRouter sets up routes for cart handler tests.
func setupCartRouter(cmsURL string, port storage.Port) *gin.Engine {
	r := gin.New()
	cartHandler := &CartHandler{Carts: cart.NewManager(port), CMS: cms.NewClient(cmsURL)}

	api := r.Group("/api")
	api.Use(middleware.Session())
	api.GET("/cart", cartHandler.GetCart)
	api.POST("/cart", cartHandler.AddToCart)
	api.PUT("/cart/:id", cartHandler.UpdateCartItem)
	api.DELETE("/cart/:id", cartHandler.RemoveFromCart)
	api.DELETE("/cart", cartHandler.ClearCart)

	return r
}

// setupProductRouter sets up public and admin product routes.
func setupProductRouter(cmsURL string, sessions *session.Store, adminEmails []string) *gin.Engine {
	r := gin.New()
	productHandler := &ProductHandler{CMS: cms.NewClient(cmsURL)}

	api := r.Group("/api")
	api.Use(middleware.Session())
	api.GET("/products", productHandler.GetProducts)
	api.GET("/products/:id", productHandler.GetProduct)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(sessions))
	admin.Use(middleware.AdminRequired(adminEmails))
	admin.POST("/products", productHandler.CreateProduct)
	admin.PUT("/products/:id", productHandler.UpdateProduct)
	admin.DELETE("/products/:id", productHandler.DeleteProduct)

	return r
}

// setupAuthRouter sets up routes for auth handler tests.
func setupAuthRouter(cmsURL string, sessions *session.Store) *gin.Engine {
	r := gin.New()
	authHandler := &AuthHandler{CMS: cms.NewClient(cmsURL), Sessions: sessions}

	api := r.Group("/api")
	api.Use(middleware.Session())
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(sessions))
	protected.GET("/auth/profile", authHandler.GetProfile)
	protected.POST("/auth/logout", authHandler.Logout)

	return r
}

// setupOrderRouter sets up routes for order handler tests.
func setupOrderRouter(cmsURL string, sessions *session.Store) *gin.Engine {
	r := gin.New()
	orderHandler := &OrderHandler{CMS: cms.NewClient(cmsURL)}

	api := r.Group("/api")
	api.Use(middleware.Session())

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(sessions))
	protected.GET("/orders", orderHandler.GetOrders)

	return r
}

// ==================== Request Helpers ====================

// jsonRequest creates an HTTP request with JSON body.
func jsonRequest(method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// sessionRequest creates a JSON request pinned to a visitor cookie.
func sessionRequest(method, url string, body interface{}, cookie *http.Cookie) *http.Request {
	req := jsonRequest(method, url, body)
	req.AddCookie(cookie)
	return req
}

// newVisitorCookie mints a signed cookie carrying the given session id.
func newVisitorCookie(id string) (*http.Cookie, error) {
	token, err := utils.GenerateSessionToken(id)
	if err != nil {
		return nil, err
	}
	return &http.Cookie{Name: middleware.SessionCookie, Value: token}, nil
}

// newSessionCookie mints a signed cookie for a fresh visitor and returns
// it with the session id it carries.
func newSessionCookie(t *testing.T) (string, *http.Cookie) {
	t.Helper()

	id := "visitor-" + t.Name()
	cookie, err := newVisitorCookie(id)
	if err != nil {
		t.Fatalf("failed to sign session token: %v", err)
	}
	return id, cookie
}

// loggedInCookie saves a session for the given account and returns a
// cookie bound to it.
func loggedInCookie(t *testing.T, sessions *session.Store, email string) *http.Cookie {
	t.Helper()

	id, cookie := newSessionCookie(t)
	err := sessions.Save(id, session.Session{
		Token: "cms-token-" + email,
		User:  models.User{ID: 7, Username: strings.Split(email, "@")[0], Email: email},
	})
	if err != nil {
		t.Fatalf("failed to save session: %v", err)
	}
	return cookie
}

// ==================== Response Helpers ====================

// parseResponse reads the response body into a map.
func parseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// parseResponseArray reads the response body into a slice of maps.
func parseResponseArray(w *httptest.ResponseRecorder) []interface{} {
	var result []interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// cartItems pulls the items array out of a cart state response.
func cartItems(resp map[string]interface{}) []interface{} {
	items, _ := resp["items"].([]interface{})
	return items
}
