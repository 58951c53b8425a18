package main

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"roster-api/services"
)

// newRouter baut den gin-Router mit allen Routen auf.
func newRouter(roster *services.Roster, log *zap.Logger) *gin.Engine {
	router := gin.Default()
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	setupGroupRoutes(router, roster, log)
	setupUserRoutes(router, roster, log)
	setupResearchRoutes(router, roster, log)
	return router
}

// isMissingField meldet, ob die Bindung an einem required-Tag gescheitert ist.
func isMissingField(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}

// isBlank ergänzt required für Felder vom Typ any: required prüft dort nur
// auf nil, nicht auf "", 0 oder false.
func isBlank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case float64:
		return x == 0
	case bool:
		return !x
	default:
		return false
	}
}

func setupGroupRoutes(router *gin.Engine, roster *services.Roster, log *zap.Logger) {
	router.GET("/groups", func(c *gin.Context) {
		groups, err := roster.ListGroups(c.Request.Context())
		if err != nil {
			warehouseErrorsCounter.WithLabelValues("list_groups").Inc()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch groups"})
			return
		}
		c.JSON(http.StatusOK, groups)
	})
}

type createUserRequest struct {
	Name    string `json:"name" binding:"required"`
	GroupID any    `json:"groupId" binding:"required"` // Zahl oder numerischer String
}

func setupUserRoutes(router *gin.Engine, roster *services.Roster, log *zap.Logger) {
	router.GET("/users", func(c *gin.Context) {
		users, err := roster.ListUsers(c.Request.Context())
		if err != nil {
			warehouseErrorsCounter.WithLabelValues("list_users").Inc()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}
		c.JSON(http.StatusOK, users)
	})

	router.POST("/users", func(c *gin.Context) {
		var req createUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			if isMissingField(err) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Name and group ID are required"})
				return
			}
			log.Error("Invalid request body for user creation", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}
		if isBlank(req.GroupID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name and group ID are required"})
			return
		}

		groupID, err := parseGroupID(req.GroupID)
		if err != nil {
			log.Error("Invalid group ID for user creation", zap.Any("group_id", req.GroupID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}

		user, err := roster.CreateUser(c.Request.Context(), req.Name, groupID)
		if err != nil {
			warehouseErrorsCounter.WithLabelValues("create_user").Inc()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}
		usersCreatedCounter.Inc()
		c.JSON(http.StatusOK, user)
	})
}

// parseGroupID akzeptiert eine JSON-Zahl oder einen numerischen String.
func parseGroupID(v any) (int64, error) {
	switch id := v.(type) {
	case float64:
		if id != math.Trunc(id) || id >= -math.MinInt64 || id < math.MinInt64 {
			return 0, fmt.Errorf("group id %v is not an integer", id)
		}
		return int64(id), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("group id %q is not an integer: %w", id, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("group id has unsupported type %T", v)
	}
}

type createResearchRequest struct {
	Value any `json:"value" binding:"required"` // String, Zahl oder Bool
}

// researchValue wandelt einen JSON-Skalar in den zu speichernden Text.
func researchValue(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(x), nil
	default:
		return "", fmt.Errorf("value has unsupported type %T", v)
	}
}

func setupResearchRoutes(router *gin.Engine, roster *services.Roster, log *zap.Logger) {
	router.GET("/research", func(c *gin.Context) {
		entries, err := roster.ListResearch(c.Request.Context())
		if err != nil {
			warehouseErrorsCounter.WithLabelValues("list_research").Inc()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch research data"})
			return
		}
		c.JSON(http.StatusOK, entries)
	})

	router.POST("/research", func(c *gin.Context) {
		var req createResearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			if isMissingField(err) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Value is required"})
				return
			}
			log.Error("Invalid request body for research creation", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create research"})
			return
		}
		if isBlank(req.Value) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Value is required"})
			return
		}

		value, err := researchValue(req.Value)
		if err != nil {
			log.Error("Invalid value for research creation", zap.Any("value", req.Value), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create research"})
			return
		}

		entry, err := roster.CreateResearch(c.Request.Context(), value)
		if err != nil {
			warehouseErrorsCounter.WithLabelValues("create_research").Inc()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create research"})
			return
		}
		researchCreatedCounter.Inc()
		c.JSON(http.StatusOK, entry)
	})
}
