package main

import "fintrack/cmd"

// @title FinTrack 个人财务 API
// @version 1.0
// @description 个人财务管理 API，支持注册登录、收入预算分配、预算对账与收支记录管理
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cmd.Execute()
}
