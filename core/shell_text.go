package core

// Text written by the shell. Tests match on these, keep them stable.
const (
	BootBanner = "\r\nBem-vindo ao shell STM32F4!\r\n" +
		"Digite 'help' para ver os comandos disponiveis.\r\n"

	HelpHeader = "Comandos disponiveis:\r\n"

	MsgLEDOn          = "LED ligado\r\n"
	MsgLEDOff         = "LED desligado\r\n"
	MsgStatusActive   = "Sistema OK - LED ativo\r\n"
	MsgStatusInactive = "Sistema OK - LED inativo\r\n"
	MsgNotRecognized  = "Comando não reconhecido. Digite 'help' para ver os comandos.\r\n"

	ADCModeBanner  = "Modo ADC continuo. Pressione Ctrl+C para sair.\r\n"
	ADCModeTrailer = "\r\nModo ADC continuo encerrado.\r\n"
	ADCLinePrefix  = "ADC: "
)

// Command names
const (
	CmdHelp      = "help"
	CmdLEDOn     = "led on"
	CmdLEDOff    = "led off"
	CmdLEDToggle = "led toggle"
	CmdStatus    = "status"
	CmdADCCont   = "adc cont"
)

func ledMessage(enabled bool) string {
	if enabled {
		return MsgLEDOn
	}
	return MsgLEDOff
}

func statusMessage(enabled bool) string {
	if enabled {
		return MsgStatusActive
	}
	return MsgStatusInactive
}
