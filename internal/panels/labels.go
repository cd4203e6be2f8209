package panels

import (
	"time"

	"trexxdash/pkg/contracts/domain"
)

var (
	forecastChart = domain.ChartMeta{
		Title:  "Previsão de Receita Diária para os Próximos 30 Dias",
		XLabel: "Data",
		YLabel: "Receita (R$)",
	}
	weekdayChart = domain.ChartMeta{
		Title:  "Receita Total Prevista por Dia da Semana",
		XLabel: "Dia da Semana",
		YLabel: "Receita Prevista (R$)",
	}
	teamBarChart = domain.ChartMeta{
		Title:  "Receita Esperada vs. Probabilidade de Compra",
		XLabel: "Time",
		YLabel: "Receita Esperada (R$)",
		Color:  "Prob. Média de Compra",
	}
	teamShareChart = domain.ChartMeta{
		Title: "Proporção da Receita Esperada por Time",
		Color: "Fan_Count",
	}
	clusterShareChart = domain.ChartMeta{
		Title: "Fatia da Receita por Cluster (%)",
	}
	clusterSpendChart = domain.ChartMeta{
		Title:  "Gasto Médio por Fã em Cada Cluster",
		XLabel: "Cluster",
		YLabel: "Gasto Médio (R$)",
	}
	fanScatterChart = domain.ChartMeta{
		Title:  "Relação entre Gasto Total, Probabilidade de Compra e Cluster",
		XLabel: "Gasto Total (R$)",
		YLabel: "Probabilidade de Compra",
		Color:  "Cluster",
	}
	modelComparisonChart = domain.ChartMeta{
		Title:  "Comparativo de Erros (RMSE e MAE)",
		XLabel: "Métrica",
		YLabel: "Valor do Erro",
		Color:  "Model",
	}
	featureImportanceChart = domain.ChartMeta{
		XLabel: "Importância",
		YLabel: "Feature",
	}
)

// weekdayOrder is the fixed display order of the weekday rollup.
var weekdayOrder = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

var weekdayLabels = map[time.Weekday]string{
	time.Monday:    "Segunda-feira",
	time.Tuesday:   "Terça-feira",
	time.Wednesday: "Quarta-feira",
	time.Thursday:  "Quinta-feira",
	time.Friday:    "Sexta-feira",
	time.Saturday:  "Sábado",
	time.Sunday:    "Domingo",
}
