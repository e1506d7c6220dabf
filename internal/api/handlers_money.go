// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/promoscore/internal/activity"
	"github.com/tomtom215/promoscore/internal/finance"
	"github.com/tomtom215/promoscore/internal/gateway"
	"github.com/tomtom215/promoscore/internal/models"
	"github.com/tomtom215/promoscore/internal/payout"
	"github.com/tomtom215/promoscore/internal/settlement"
)

// DailyPayout computes the daily payout for an already validated average
// rate. No classification happens here.
func (h *Handler) DailyPayout(w http.ResponseWriter, r *http.Request) {
	var req models.DailyPayoutRequest
	if !h.decodeJSON(w, r, &req) || !validateRequest(w, r, &req) {
		return
	}

	engine := h.deps.Payout
	if req.RateFee != nil {
		if req.RateFee.IsNegative() {
			respondError(w, r, http.StatusBadRequest, errorBody(models.ErrCodeInvalidAmount, "rate_fee must not be negative"), nil, nil)
			return
		}
		engine = payout.NewEngineWithFee(*req.RateFee)
	}
	respondData(w, r, http.StatusOK, engine.Explain(req.AverageRate))
}

// Settle evaluates one user and disburses the daily payout when the user is
// valid.
func (h *Handler) Settle(w http.ResponseWriter, r *http.Request) {
	if h.deps.Settlement == nil {
		respondError(w, r, http.StatusNotFound, errorBody(models.ErrCodeNotFound, "settlement is not configured"), nil, nil)
		return
	}
	q, ok := h.evaluationRange(w, r, chi.URLParam(r, "userID"))
	if !ok {
		return
	}

	st, err := h.deps.Settlement.Settle(r.Context(), q.UserID, q.Start, q.Cutoff)
	switch {
	case err == nil:
		respondData(w, r, http.StatusOK, st)
	case errors.Is(err, activity.ErrRangeTooLong):
		respondError(w, r, http.StatusBadRequest, errorBody(models.ErrCodeValidation, err.Error()), st, nil)
	case gateway.IsUnavailable(err):
		respondError(w, r, http.StatusServiceUnavailable,
			errorBody(models.ErrCodeGatewayUnavailable, "payment gateway unavailable, retry later"), st, err)
	default:
		respondError(w, r, http.StatusInternalServerError,
			errorBody(models.ErrCodeInternal, "settlement failed"), st, err)
	}
}

// SettlementSweep settles every known user over the configured lookback.
func (h *Handler) SettlementSweep(w http.ResponseWriter, r *http.Request) {
	if h.deps.Settlement == nil {
		respondError(w, r, http.StatusNotFound, errorBody(models.ErrCodeNotFound, "settlement is not configured"), nil, nil)
		return
	}
	results, err := h.deps.Settlement.SweepAll(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, errorBody(models.ErrCodeStorage, "settlement sweep failed"), nil, err)
		return
	}
	if results == nil {
		results = []settlement.Settlement{}
	}
	respondData(w, r, http.StatusOK, map[string]interface{}{
		"settlements": results,
		"count":       len(results),
	})
}

// Withdrawal computes a promoter withdrawal. A negative gross amount is
// answered with the zeroed result and INVALID_AMOUNT.
func (h *Handler) Withdrawal(w http.ResponseWriter, r *http.Request) {
	var req models.WithdrawalRequest
	if !h.decodeJSON(w, r, &req) || !validateRequest(w, r, &req) {
		return
	}

	res := h.deps.Withdrawals.Process(req.UserID, req.GrossAmount)
	if res.Err != nil {
		respondError(w, r, http.StatusUnprocessableEntity, errorBody(models.ErrCodeInvalidAmount, res.ErrorMessage), res, nil)
		return
	}
	respondData(w, r, http.StatusOK, res)
}

// CreatorPayout charges a creator payout plus platform fee to the
// advertiser's stored budget.
func (h *Handler) CreatorPayout(w http.ResponseWriter, r *http.Request) {
	var req models.CreatorPayoutRequest
	if !h.decodeJSON(w, r, &req) || !validateRequest(w, r, &req) {
		return
	}

	res, err := h.deps.Budgets.ChargeCreatorPayout(r.Context(), req.AdvertiserID, req.CreatorID, req.PayoutToCreator)
	if err != nil {
		h.budgetStoreError(w, r, err)
		return
	}
	respondPayoutResult(w, r, res)
}

// CreatorPayoutQuote runs the payout computation against the supplied
// budget. Nothing is stored.
func (h *Handler) CreatorPayoutQuote(w http.ResponseWriter, r *http.Request) {
	var req models.CreatorPayoutQuoteRequest
	if !h.decodeJSON(w, r, &req) || !validateRequest(w, r, &req) {
		return
	}

	var res finance.BudgetPayoutResult
	if req.FeeRate != nil {
		if req.FeeRate.IsNegative() {
			respondError(w, r, http.StatusBadRequest, errorBody(models.ErrCodeInvalidAmount, "fee_rate must not be negative"), nil, nil)
			return
		}
		res = finance.ProcessCreatorPayout(req.CreatorID, req.PayoutToCreator, req.Budget, *req.FeeRate)
	} else {
		res = h.deps.CreatorPayouts.Process(req.CreatorID, req.PayoutToCreator, req.Budget)
	}
	respondPayoutResult(w, r, res)
}

func respondPayoutResult(w http.ResponseWriter, r *http.Request, res finance.BudgetPayoutResult) {
	switch {
	case res.Err == nil:
		respondData(w, r, http.StatusOK, res)
	case errors.Is(res.Err, finance.ErrInsufficientBudget):
		respondError(w, r, http.StatusUnprocessableEntity, errorBody(models.ErrCodeInsufficientBudget, res.ErrorMessage), res, nil)
	default:
		respondError(w, r, http.StatusUnprocessableEntity, errorBody(models.ErrCodeInvalidAmount, res.ErrorMessage), res, nil)
	}
}

func (h *Handler) budgetStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, finance.ErrUnknownAdvertiser) {
		respondError(w, r, http.StatusNotFound, errorBody(models.ErrCodeNotFound, "unknown advertiser"), nil, nil)
		return
	}
	respondError(w, r, http.StatusInternalServerError, errorBody(models.ErrCodeStorage, "budget store failure"), nil, err)
}

// BudgetDeposit routes a top-up through the payment gateway and credits the
// advertiser budget.
func (h *Handler) BudgetDeposit(w http.ResponseWriter, r *http.Request) {
	var req models.BudgetDepositRequest
	if !h.decodeJSON(w, r, &req) || !validateRequest(w, r, &req) {
		return
	}
	if !req.Amount.IsPositive() {
		respondError(w, r, http.StatusUnprocessableEntity, errorBody(models.ErrCodeInvalidAmount, "deposit amount must be positive"), nil, nil)
		return
	}

	var receipt *gateway.Receipt
	if h.deps.Depositor != nil {
		rc, err := h.deps.Depositor.Deposit(r.Context(), gateway.DepositRequest{
			AdvertiserID: req.AdvertiserID,
			Amount:       req.Amount,
			Description:  req.Description,
		})
		if err != nil {
			respondError(w, r, http.StatusBadGateway, errorBody(models.ErrCodeGatewayUnavailable, "deposit was not accepted by the gateway"), nil, err)
			return
		}
		receipt = &rc
	}

	balance, err := h.deps.Budgets.Deposit(r.Context(), req.AdvertiserID, req.Amount)
	if err != nil {
		if errors.Is(err, finance.ErrInvalidAmount) {
			respondError(w, r, http.StatusUnprocessableEntity, errorBody(models.ErrCodeInvalidAmount, err.Error()), nil, nil)
			return
		}
		h.budgetStoreError(w, r, err)
		return
	}
	respondData(w, r, http.StatusCreated, map[string]interface{}{
		"advertiser_id": req.AdvertiserID,
		"amount":        req.Amount,
		"balance":       balance.StringFixed(2),
		"receipt":       receipt,
	})
}

// BudgetBalance returns an advertiser's remaining budget.
func (h *Handler) BudgetBalance(w http.ResponseWriter, r *http.Request) {
	advertiserID := chi.URLParam(r, "advertiserID")
	balance, err := h.deps.Budgets.Balance(r.Context(), advertiserID)
	if err != nil {
		h.budgetStoreError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, map[string]interface{}{
		"advertiser_id": advertiserID,
		"balance":       balance.StringFixed(2),
	})
}

// Transaction returns a gateway receipt by transaction ID.
func (h *Handler) Transaction(w http.ResponseWriter, r *http.Request) {
	if h.deps.Transactions == nil {
		respondError(w, r, http.StatusNotFound, errorBody(models.ErrCodeNotFound, "transaction lookup is not configured"), nil, nil)
		return
	}
	receipt, err := h.deps.Transactions.Status(r.Context(), chi.URLParam(r, "transactionID"))
	if err != nil {
		if errors.Is(err, gateway.ErrUnknownTransaction) {
			respondError(w, r, http.StatusNotFound, errorBody(models.ErrCodeNotFound, "unknown transaction"), nil, nil)
			return
		}
		respondError(w, r, http.StatusBadGateway, errorBody(models.ErrCodeGatewayUnavailable, "transaction lookup failed"), nil, err)
		return
	}
	respondData(w, r, http.StatusOK, receipt)
}

// PricingQuote prices a usage total against an optional prepaid credit.
func (h *Handler) PricingQuote(w http.ResponseWriter, r *http.Request) {
	var req models.PricingRequest
	if !h.decodeJSON(w, r, &req) || !validateRequest(w, r, &req) {
		return
	}

	res := h.deps.Pricer.Price(req.TotalUnits, req.CreditLimit)
	if res.Err != nil {
		respondError(w, r, http.StatusUnprocessableEntity, errorBody(models.ErrCodeInvalidAmount, res.ErrorMessage), res, nil)
		return
	}
	respondData(w, r, http.StatusOK, res)
}
