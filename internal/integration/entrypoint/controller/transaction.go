package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/client/internal/application/usecase/localcache"
	"github.com/finance-tracker/client/internal/application/usecase/transactions"
	"github.com/finance-tracker/client/internal/integration/entrypoint/dto"
)

// TransactionController handles the transaction and balance endpoints.
type TransactionController struct {
	cache        *localcache.Cache
	writer       *transactions.Writer
	baseCurrency string
}

// NewTransactionController creates a new transaction controller instance.
func NewTransactionController(
	cache *localcache.Cache,
	writer *transactions.Writer,
	baseCurrency string,
) *TransactionController {
	return &TransactionController{
		cache:        cache,
		writer:       writer,
		baseCurrency: baseCurrency,
	}
}

// List handles GET /transactions requests. It serves the local cache; it
// never reaches for the network.
func (c *TransactionController) List(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.ToTransactionListResponse(c.cache.Snapshot()))
}

// Create handles POST /transactions requests: the optimistic write path.
// The response is 201 whether or not the server accepted the record; the
// confirmed field tells the caller which version it got.
func (c *TransactionController) Create(ctx *gin.Context) {
	var request dto.CreateTransactionRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	recorded, err := c.writer.Record(ctx.Request.Context(), request.ToEntity())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "Failed to record transaction",
		})
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToTransactionResponse(recorded))
}

// Balance handles GET /balance requests.
func (c *TransactionController) Balance(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.BalanceResponse{
		Balance:  c.cache.Balance().String(),
		Currency: c.baseCurrency,
	})
}
