package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Gateway --dir ../domain/match --output domain/match --outpkg matchmock --filename gateway_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/insightrun --output domain/insightrun --outpkg insightrunmock --filename repository_mock.go
