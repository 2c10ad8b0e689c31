// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package module

// resetBringup discards the process-wide bring-up guards so each test can
// exercise the registration protocol from scratch.
func resetBringup() {
	bringup = new(bringupState)
}
