package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

type ctxKey int

const ctxMerchantKey ctxKey = iota

var errUnauthenticated = errors.New("unauthenticated")

type authMerchant struct {
	MerchantID string
	StoreID    string
	Email      string
	Name       string
}

func (a *API) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			respondError(w, http.StatusUnauthorized, errUnauthenticated)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		claims, err := a.tokenSvc.ParseToken(token)
		if err != nil {
			respondError(w, http.StatusUnauthorized, errUnauthenticated)
			return
		}

		ctx := context.WithValue(r.Context(), ctxMerchantKey, &authMerchant{
			MerchantID: claims.MerchantID,
			StoreID:    claims.StoreID,
			Email:      claims.Email,
			Name:       claims.Name,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getAuthMerchant(ctx context.Context) *authMerchant {
	val := ctx.Value(ctxMerchantKey)
	if m, ok := val.(*authMerchant); ok {
		return m
	}
	return nil
}
