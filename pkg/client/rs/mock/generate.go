package mock

//go:generate go install github.com/golang/mock/mockgen@v1.6.0
//go:generate mockgen -package mock -destination ./keyset.mock.go github.com/authing/authing-go-sdk/v3/pkg/oidc KeySet
