package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bellapacxx/bingo-hall/game"
)

// SellTicket records a sale for the current round.
func (gc *GameController) SellTicket(c *gin.Context) {
	var req game.TicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, game.NewResult("", nil, err))
		return
	}

	ticket, err := gc.manager.SellTicket(c.Request.Context(), req)
	respond(c, http.StatusCreated, "ticket sold", ticket, err)
}

// ListTickets returns the tickets sold for the current round.
func (gc *GameController) ListTickets(c *gin.Context) {
	respond(c, http.StatusOK, "tickets", gin.H{
		"gameId":  gc.manager.CurrentRound(),
		"tickets": gc.manager.Tickets(),
	}, nil)
}
