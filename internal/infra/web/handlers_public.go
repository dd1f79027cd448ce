package web

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"streamshop/internal/domain"
	"streamshop/internal/domain/model"
	"streamshop/internal/infra/metrics"
	"streamshop/internal/infra/redis"
)

// userMessage translates domain errors into something a shopper can act on.
func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return "Some required data is missing or invalid. Check the form and try again."
	case errors.Is(err, domain.ErrNoInventory):
		return "No accounts are left for this platform right now."
	case errors.Is(err, domain.ErrInvalidState):
		return "This order can no longer be changed."
	case errors.Is(err, domain.ErrNotFound):
		return "We could not find that record."
	default:
		return "Something went wrong. Please try again."
	}
}

// currentCustomer resolves the optional customer session for pages that
// render either way.
func (s *Server) currentCustomer(r *http.Request) *model.Customer {
	id, err := s.auth.CustomerFromRequest(r)
	if err != nil {
		return nil
	}
	customer, err := s.customerUC.Get(r.Context(), id)
	if err != nil {
		return nil
	}
	return customer
}

func (s *Server) basePage(r *http.Request, title string) page {
	return page{
		Title:    title,
		Flash:    r.URL.Query().Get("msg"),
		WhatsApp: s.store.SupportWhatsApp,
		Customer: s.currentCustomer(r),
	}
}

type catalogEntry struct {
	Platform  string
	Available int
}

type indexView struct {
	page
	Catalog []catalogEntry
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	counts, err := s.inventoryUC.Catalog(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("catalog load failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	entries := make([]catalogEntry, 0, len(counts))
	for platform, n := range counts {
		entries = append(entries, catalogEntry{Platform: platform, Available: n})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Platform < entries[j].Platform })

	s.rnd.render(w, http.StatusOK, "index.html", indexView{
		page:    s.basePage(r, "Catalog"),
		Catalog: entries,
	})
}

type loginView struct {
	page
	Phone string
	Name  string
	Next  string
}

func (s *Server) handleCustomerLoginForm(w http.ResponseWriter, r *http.Request) {
	s.rnd.render(w, http.StatusOK, "login.html", loginView{
		page: s.basePage(r, "Sign in"),
		Next: r.URL.Query().Get("next"),
	})
}

func (s *Server) handleCustomerLogin(w http.ResponseWriter, r *http.Request) {
	phone := strings.TrimSpace(r.FormValue("phone"))
	name := strings.TrimSpace(r.FormValue("name"))
	next := r.FormValue("next")

	view := loginView{page: s.basePage(r, "Sign in"), Phone: phone, Name: name, Next: next}
	if phone == "" {
		view.Error = "Enter your phone number."
		s.rnd.render(w, http.StatusBadRequest, "login.html", view)
		return
	}

	customer, err := s.customerUC.Register(r.Context(), phone, name)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			view.Error = "Tell us your name so we can create your account."
		} else {
			view.Error = userMessage(err)
		}
		s.rnd.render(w, http.StatusBadRequest, "login.html", view)
		return
	}
	if err := s.auth.MintCustomer(w, customer.ID); err != nil {
		s.log.Error().Err(err).Msg("mint customer session failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if next == "" {
		next = "/my-accounts"
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (s *Server) handleCustomerLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.ClearCustomer(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type buyView struct {
	page
	Platform        string
	Instructions    string
	QRURL           string
	PaymentAccounts []string
	PaymentRef      string
}

func (s *Server) handleBuyForm(w http.ResponseWriter, r *http.Request) {
	s.rnd.render(w, http.StatusOK, "buy.html", buyView{
		page:            s.basePage(r, "Buy"),
		Platform:        chi.URLParam(r, "platform"),
		Instructions:    s.store.PaymentInstructions,
		QRURL:           s.store.PaymentQRURL,
		PaymentAccounts: s.store.PaymentAccounts,
	})
}

func (s *Server) handleBuySubmit(w http.ResponseWriter, r *http.Request) {
	platform := chi.URLParam(r, "platform")
	paymentRef := r.FormValue("reference")
	customerID := customerIDFrom(r.Context())

	view := buyView{
		page:            s.basePage(r, "Buy"),
		Platform:        platform,
		Instructions:    s.store.PaymentInstructions,
		QRURL:           s.store.PaymentQRURL,
		PaymentAccounts: s.store.PaymentAccounts,
		PaymentRef:      paymentRef,
	}

	if view.Customer != nil && s.limiter != nil {
		ok, err := s.limiter.Allow(r.Context(), redis.OrderSubmitKey(view.Customer.Phone), s.store.OrderRateLimit, s.store.OrderRateWindow)
		if err != nil {
			// Redis being down should not stop sales.
			s.log.Warn().Err(err).Msg("rate limiter unavailable")
		} else if !ok {
			view.Error = "Too many orders in a short time. Please wait a moment."
			s.rnd.render(w, http.StatusTooManyRequests, "buy.html", view)
			return
		}
	}

	order, err := s.orderUC.Create(r.Context(), customerID, platform, paymentRef)
	if err != nil {
		view.Error = userMessage(err)
		s.rnd.render(w, http.StatusBadRequest, "buy.html", view)
		return
	}
	metrics.IncOrdersCreated(order.Platform)
	http.Redirect(w, r, "/orders/pending", http.StatusSeeOther)
}

func (s *Server) handleOrderPending(w http.ResponseWriter, r *http.Request) {
	s.rnd.render(w, http.StatusOK, "order_pending.html", struct{ page }{
		s.basePage(r, "Order received"),
	})
}

type myAccountRow struct {
	Order      *model.Order
	Credential string
}

type myAccountsView struct {
	page
	Rows []myAccountRow
}

func (s *Server) handleMyAccounts(w http.ResponseWriter, r *http.Request) {
	customerID := customerIDFrom(r.Context())
	orders, err := s.orderUC.ListByCustomer(r.Context(), customerID)
	if err != nil {
		s.log.Error().Err(err).Msg("list customer orders failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	rows := make([]myAccountRow, 0, len(orders))
	for _, o := range orders {
		row := myAccountRow{Order: o}
		if o.Status == model.OrderStatusFulfilled && o.AccountID != nil {
			if account, err := s.inventoryUC.Get(r.Context(), *o.AccountID); err == nil {
				row.Credential = account.Credential
			}
		}
		rows = append(rows, row)
	}
	s.rnd.render(w, http.StatusOK, "my_accounts.html", myAccountsView{
		page: s.basePage(r, "My accounts"),
		Rows: rows,
	})
}
