package repository

import (
	investmentRepo "investplan/database/repository/investment"
	productRepo "investplan/database/repository/product"
	transactionRepo "investplan/database/repository/transaction"
	userRepo "investplan/database/repository/user"
)

// Re-export the repository interfaces and Mongo constructors.
type TransactionRepository = transactionRepo.TransactionRepository

var NewMongoTransactionRepo = transactionRepo.NewMongoTransactionRepo

type UserRepository = userRepo.UserRepository

var NewMongoUserRepo = userRepo.NewMongoUserRepo

type ProductRepository = productRepo.ProductRepository

var NewMongoProductRepo = productRepo.NewMongoProductRepo

type InvestmentRepository = investmentRepo.InvestmentRepository

var NewMongoInvestmentRepo = investmentRepo.NewMongoInvestmentRepo
