package web

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"streamshop/internal/domain"
	"streamshop/internal/domain/model"
	"streamshop/internal/infra/metrics"
	"streamshop/internal/usecase"
)

func (s *Server) adminPage(r *http.Request, title string) page {
	return page{
		Title: title,
		Flash: r.URL.Query().Get("msg"),
		Error: r.URL.Query().Get("err"),
		Admin: true,
	}
}

func redirectWith(w http.ResponseWriter, r *http.Request, path, key, msg string) {
	http.Redirect(w, r, path+"?"+key+"="+url.QueryEscape(msg), http.StatusSeeOther)
}

type adminLoginView struct {
	page
	Next string
}

func (s *Server) handleAdminLoginForm(w http.ResponseWriter, r *http.Request) {
	s.rnd.render(w, http.StatusOK, "admin_login.html", adminLoginView{
		page: s.adminPage(r, "Admin sign in"),
		Next: r.URL.Query().Get("next"),
	})
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if !s.auth.CheckPassword(r.FormValue("password")) {
		view := adminLoginView{page: s.adminPage(r, "Admin sign in"), Next: r.FormValue("next")}
		view.Error = "Wrong password."
		s.rnd.render(w, http.StatusUnauthorized, "admin_login.html", view)
		return
	}
	if err := s.auth.MintAdmin(w); err != nil {
		s.log.Error().Err(err).Msg("mint admin session failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	next := r.FormValue("next")
	if next == "" {
		next = "/admin/orders"
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (s *Server) handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.ClearAdmin(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type dashboardView struct {
	page
	Totals *usecase.StoreTotals
}

func (s *Server) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	totals, err := s.statsUC.Totals(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("stats load failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	metrics.SetOrdersByStatus(totals.OrdersByStatus)
	metrics.SetStockAvailable(totals.StockByPlatform)
	s.rnd.render(w, http.StatusOK, "admin_dashboard.html", dashboardView{
		page:   s.adminPage(r, "Dashboard"),
		Totals: totals,
	})
}

type adminOrderRow struct {
	Order    *model.Order
	Customer *model.Customer
}

type adminOrdersView struct {
	page
	Rows []adminOrderRow
}

func (s *Server) handleAdminOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.orderUC.ListOpen(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("list open orders failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	rows := make([]adminOrderRow, 0, len(orders))
	for _, o := range orders {
		row := adminOrderRow{Order: o}
		if c, err := s.customerUC.Get(r.Context(), o.CustomerID); err == nil {
			row.Customer = c
		}
		rows = append(rows, row)
	}
	s.rnd.render(w, http.StatusOK, "admin_orders.html", adminOrdersView{
		page: s.adminPage(r, "Open orders"),
		Rows: rows,
	})
}

type adminOrderDetailView struct {
	page
	Order     *model.Order
	Customer  *model.Customer
	Available int
}

func (s *Server) handleAdminOrderDetail(w http.ResponseWriter, r *http.Request) {
	order, err := s.orderUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	view := adminOrderDetailView{
		page:  s.adminPage(r, "Order "+order.Reference),
		Order: order,
	}
	if c, err := s.customerUC.Get(r.Context(), order.CustomerID); err == nil {
		view.Customer = c
	}
	if counts, err := s.inventoryUC.Catalog(r.Context()); err == nil {
		view.Available = counts[order.Platform]
	}
	s.rnd.render(w, http.StatusOK, "admin_order_detail.html", view)
}

func (s *Server) handleAdminAssign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	order, err := s.orderUC.Assign(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoInventory):
			metrics.IncAssignFailed("no_inventory")
		case errors.Is(err, domain.ErrInvalidState):
			metrics.IncAssignFailed("invalid_state")
		}
		redirectWith(w, r, "/admin/orders/"+id, "err", userMessage(err))
		return
	}
	metrics.IncOrdersFulfilled(order.Platform)
	redirectWith(w, r, "/admin/orders", "msg", "Account assigned, order "+order.Reference+" fulfilled.")
}

func (s *Server) handleAdminMarkPaid(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	order, err := s.orderUC.MarkPaid(r.Context(), id)
	if err != nil {
		redirectWith(w, r, "/admin/orders/"+id, "err", userMessage(err))
		return
	}
	redirectWith(w, r, "/admin/orders/"+id, "msg", "Order "+order.Reference+" marked as paid.")
}

func (s *Server) handleAdminCancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	order, err := s.orderUC.Cancel(r.Context(), id)
	if err != nil {
		redirectWith(w, r, "/admin/orders/"+id, "err", userMessage(err))
		return
	}
	metrics.IncOrdersCancelled(order.Platform)
	redirectWith(w, r, "/admin/orders", "msg", "Order "+order.Reference+" cancelled.")
}

type adminStockView struct {
	page
	Accounts []*model.Account
}

func (s *Server) handleAdminStock(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.inventoryUC.List(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("list stock failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	s.rnd.render(w, http.StatusOK, "admin_stock.html", adminStockView{
		page:     s.adminPage(r, "Stock"),
		Accounts: accounts,
	})
}

func (s *Server) handleAdminStockAdd(w http.ResponseWriter, r *http.Request) {
	platform := r.FormValue("platform")
	credential := strings.TrimSpace(r.FormValue("credential"))
	notes := r.FormValue("notes")

	account, err := s.inventoryUC.Load(r.Context(), platform, credential, notes)
	if err != nil {
		redirectWith(w, r, "/admin/stock", "err", userMessage(err))
		return
	}
	metrics.IncAccountsLoaded(account.Platform)
	redirectWith(w, r, "/admin/stock", "msg", "Account added to stock.")
}

type adminStockEditView struct {
	page
	Account *model.Account
}

func (s *Server) handleAdminStockEditForm(w http.ResponseWriter, r *http.Request) {
	account, err := s.inventoryUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	s.rnd.render(w, http.StatusOK, "admin_stock_edit.html", adminStockEditView{
		page:    s.adminPage(r, "Edit account"),
		Account: account,
	})
}

func (s *Server) handleAdminStockEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	_, err := s.inventoryUC.Update(r.Context(), id, r.FormValue("platform"), r.FormValue("credential"), r.FormValue("notes"))
	if err != nil {
		redirectWith(w, r, "/admin/stock/"+id+"/edit", "err", userMessage(err))
		return
	}
	redirectWith(w, r, "/admin/stock", "msg", "Changes saved.")
}

func (s *Server) handleAdminStockRetire(w http.ResponseWriter, r *http.Request) {
	if err := s.inventoryUC.Retire(r.Context(), chi.URLParam(r, "id")); err != nil {
		msg := userMessage(err)
		if errors.Is(err, domain.ErrAccountAssigned) {
			msg = "Assigned accounts cannot be retired."
		}
		redirectWith(w, r, "/admin/stock", "err", msg)
		return
	}
	redirectWith(w, r, "/admin/stock", "msg", "Account retired.")
}

type adminExpirationsView struct {
	page
	Days int
	Rows []adminOrderRow
}

func (s *Server) handleAdminExpirations(w http.ResponseWriter, r *http.Request) {
	days := 3
	if v, err := strconv.Atoi(r.URL.Query().Get("days")); err == nil && v > 0 {
		days = v
	}
	orders, err := s.orderUC.ListExpiring(r.Context(), days)
	if err != nil {
		s.log.Error().Err(err).Msg("list expirations failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	rows := make([]adminOrderRow, 0, len(orders))
	for _, o := range orders {
		row := adminOrderRow{Order: o}
		if c, err := s.customerUC.Get(r.Context(), o.CustomerID); err == nil {
			row.Customer = c
		}
		rows = append(rows, row)
	}
	s.rnd.render(w, http.StatusOK, "admin_expirations.html", adminExpirationsView{
		page: s.adminPage(r, "Upcoming expirations"),
		Days: days,
		Rows: rows,
	})
}
