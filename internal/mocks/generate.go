package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/resource --output domain/resource --outpkg resourcemock --filename repository_mock.go
