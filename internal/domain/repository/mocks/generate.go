// Package mocks implementaciones gomock de los puertos de persistencia.
package mocks

//go:generate mockgen -destination=repository_mock.go -package=mocks github.com/jhoicas/Pedidos-api/internal/domain/repository BillRepository,OrderRepository,ProductRepository
